// Package timeout races an operation against a deadline.
package timeout

import (
	"context"
	"fmt"
	"time"
)

// Error is returned when the operation has not settled before the deadline
type Error struct {
	After time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("timeout after %v", e.After)
}

// Timeout allows callers to classify the error without depending on this package
func (e *Error) Timeout() bool { return true }

type result[T any] struct {
	value T
	err   error
}

// Do runs op and returns its result if it settles within d.
// Otherwise it returns *Error, or ctx.Err() if ctx is done first. The context handed
// to op is cancelled once Do returns, and a late result from op is dropped.
func Do[T any](ctx context.Context, d time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// buffered so a losing op never blocks
	done := make(chan result[T], 1)
	go func() {
		v, err := op(opCtx)
		done <- result[T]{value: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case r := <-done:
		return r.value, r.err
	case <-timer.C:
		return zero, &Error{After: d}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
