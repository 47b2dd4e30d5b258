package swap

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingQuote is returned when Submit is called without a quote
var ErrMissingQuote = errors.New("missing quote")

// SubmissionError is a failed swap-async submission. It is logged, never returned.
type SubmissionError struct {
	SessionID string
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("swap submission for session %s failed: %v", e.SessionID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when no settlement hash appeared within the status poll budget
type TimeoutError struct {
	SessionID string
	Attempts  int
	Interval  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("swap timeout: session %s not settled after %d polls every %v", e.SessionID, e.Attempts, e.Interval)
}

// TxDetailsTimeoutError is returned when a settled transaction was not reported mined in time
type TxDetailsTimeoutError struct {
	TxHash   string
	Attempts int
}

func (e *TxDetailsTimeoutError) Error() string {
	return fmt.Sprintf("tx details timeout: %s not mined after %d polls", e.TxHash, e.Attempts)
}

// PollError is a status or details request that failed while polling
type PollError struct {
	Attempt int
	Err     error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("poll %d failed: %v", e.Attempt, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}
