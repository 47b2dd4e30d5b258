package swap

import (
	"context"
	"strconv"
	"time"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/hubclient"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/metrics"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
)

// WaitForSettlement polls the session status until the hub reports a transaction hash.
// Each poll waits one interval first. It gives up with *TimeoutError once the attempts
// are spent, and on the first failed poll unless ContinueOnPollError is set.
func (s *Service) WaitForSettlement(ctx context.Context, chainID int, sessionID string, user string) (string, error) {
	chainLabel := strconv.Itoa(chainID)

	for attempt := 1; attempt <= s.config.StatusPollAttempts; attempt++ {
		if err := sleep(ctx, s.config.StatusPollInterval); err != nil {
			return "", err
		}

		txHash, err := s.client.SwapStatus(ctx, chainID, sessionID, user)
		if err != nil {
			metrics.StatusPolls.WithLabelValues(chainLabel, "error").Inc()
			if !s.config.ContinueOnPollError {
				return "", &PollError{Attempt: attempt, Err: err}
			}
			s.logger.DebugWithChain(chainID, "Status poll %d for session %s failed: %v", attempt, sessionID, err)
			continue
		}
		if txHash != "" {
			metrics.StatusPolls.WithLabelValues(chainLabel, "settled").Inc()
			return txHash, nil
		}
		metrics.StatusPolls.WithLabelValues(chainLabel, "pending").Inc()
	}

	return "", &TimeoutError{
		SessionID: sessionID,
		Attempts:  s.config.StatusPollAttempts,
		Interval:  s.config.StatusPollInterval,
	}
}

// TxDetails polls the transaction until the hub reports it mined. quote may be nil.
func (s *Service) TxDetails(ctx context.Context, chainID int, txHash string, quote *models.Quote) (*models.TxDetails, error) {
	chainLabel := strconv.Itoa(chainID)
	req := detailsRequest(quote)

	for attempt := 1; attempt <= s.config.DetailsPollAttempts; attempt++ {
		if err := sleep(ctx, s.config.DetailsPollInterval); err != nil {
			return nil, err
		}

		details, err := s.client.TxDetails(ctx, chainID, txHash, req)
		if err != nil {
			metrics.DetailPolls.WithLabelValues(chainLabel, "error").Inc()
			if !s.config.ContinueOnPollError {
				return nil, &PollError{Attempt: attempt, Err: err}
			}
			s.logger.DebugWithChain(chainID, "Details poll %d for tx %s failed: %v", attempt, txHash, err)
			continue
		}
		if details.Mined() {
			metrics.DetailPolls.WithLabelValues(chainLabel, "mined").Inc()
			return details, nil
		}
		metrics.DetailPolls.WithLabelValues(chainLabel, "pending").Inc()
	}

	return nil, &TxDetailsTimeoutError{TxHash: txHash, Attempts: s.config.DetailsPollAttempts}
}

func detailsRequest(quote *models.Quote) hubclient.TxDetailsRequest {
	if quote == nil {
		return hubclient.TxDetailsRequest{}
	}
	return hubclient.TxDetailsRequest{
		OutToken:  quote.OutToken,
		User:      quote.User,
		QS:        quote.QS,
		Partner:   quote.Partner,
		SessionID: quote.SessionID,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
