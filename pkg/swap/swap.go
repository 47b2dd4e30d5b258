// Package swap submits signed quotes to the liquidity hub and watches them settle.
package swap

import (
	"context"
	"strconv"
	"time"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/hubclient"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/metrics"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
)

const submitTimeout = 30 * time.Second

// Client is the subset of the hub API used by the swap service
type Client interface {
	SwapAsync(ctx context.Context, chainID int, req hubclient.SwapRequest) (string, error)
	SwapStatus(ctx context.Context, chainID int, sessionID string, user string) (string, error)
	TxDetails(ctx context.Context, chainID int, txHash string, req hubclient.TxDetailsRequest) (*models.TxDetails, error)
}

// Reporter receives the swap lifecycle
type Reporter interface {
	SwapRequested()
	SwapSucceeded(txHash string)
	SwapFailed(err error)
	SettlementDetailsSucceeded(exactOutAmount, gasCharges string)
	SettlementDetailsFailed(err error)
}

// Config holds the polling budgets of a swap
type Config struct {
	StatusPollInterval  time.Duration
	StatusPollAttempts  int
	DetailsPollInterval time.Duration
	DetailsPollAttempts int
	// ContinueOnPollError keeps polling after a failed poll instead of aborting the watch
	ContinueOnPollError bool
}

// DefaultConfig polls status every 2s for 2 minutes, then details every 2.5s for 25s
func DefaultConfig() Config {
	return Config{
		StatusPollInterval:  2000 * time.Millisecond,
		StatusPollAttempts:  60,
		DetailsPollInterval: 2500 * time.Millisecond,
		DetailsPollAttempts: 10,
	}
}

// Service submits swaps and watches their settlement
type Service struct {
	client   Client
	reporter Reporter
	config   Config
	logger   logger.Logger
}

// NewService creates a swap service. Zero fields of config fall back to DefaultConfig.
func NewService(client Client, reporter Reporter, config Config, logger logger.Logger) *Service {
	def := DefaultConfig()
	if config.StatusPollInterval <= 0 {
		config.StatusPollInterval = def.StatusPollInterval
	}
	if config.StatusPollAttempts <= 0 {
		config.StatusPollAttempts = def.StatusPollAttempts
	}
	if config.DetailsPollInterval <= 0 {
		config.DetailsPollInterval = def.DetailsPollInterval
	}
	if config.DetailsPollAttempts <= 0 {
		config.DetailsPollAttempts = def.DetailsPollAttempts
	}
	return &Service{
		client:   client,
		reporter: reporter,
		config:   config,
		logger:   logger,
	}
}

// Submit sends the signed quote for matching and blocks until the swap settles or fails.
// The watch ignores cancellation of ctx once started. A settled swap whose details could
// not be fetched is still a success, with DetailsErr set on the result.
func (s *Service) Submit(ctx context.Context, quote *models.Quote, signature string, chainID int, dexTx *models.DexRouterData) (*models.SettlementResult, error) {
	chainLabel := strconv.Itoa(chainID)
	s.reporter.SwapRequested()

	if quote == nil {
		s.fail(chainID, ErrMissingQuote)
		return nil, ErrMissingQuote
	}

	watchCtx := context.WithoutCancel(ctx)
	go s.submit(watchCtx, quote, signature, chainID, dexTx)

	started := time.Now()
	txHash, err := s.WaitForSettlement(watchCtx, chainID, quote.SessionID, quote.User)
	if err != nil {
		s.fail(chainID, err)
		return nil, err
	}
	metrics.SettlementLatency.WithLabelValues(chainLabel).Observe(time.Since(started).Seconds())
	metrics.SwapsTotal.WithLabelValues(chainLabel, "success").Inc()
	s.reporter.SwapSucceeded(txHash)
	s.logger.NoticeWithChain(chainID, "Swap %s settled in tx %s", quote.SessionID, txHash)

	result := &models.SettlementResult{TxHash: txHash}
	details, err := s.TxDetails(watchCtx, chainID, txHash, quote)
	if err != nil {
		s.reporter.SettlementDetailsFailed(err)
		s.logger.ErrorWithChain(chainID, "Failed to get details of tx %s: %v", txHash, err)
		result.DetailsErr = err
		return result, nil
	}
	s.reporter.SettlementDetailsSucceeded(details.ExactOutAmount, details.GasCharges)
	result.ExactOutAmount = details.ExactOutAmount
	result.GasCharges = details.GasCharges
	return result, nil
}

func (s *Service) fail(chainID int, err error) {
	metrics.SwapsTotal.WithLabelValues(strconv.Itoa(chainID), "failed").Inc()
	s.reporter.SwapFailed(err)
	s.logger.ErrorWithChain(chainID, "Swap failed: %v", err)
}

// submit posts the swap. Failures only surface through the status poll.
func (s *Service) submit(ctx context.Context, quote *models.Quote, signature string, chainID int, dexTx *models.DexRouterData) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	req := hubclient.SwapRequest{
		Quote:     quote,
		InToken:   quote.InToken,
		OutToken:  quote.OutToken,
		InAmount:  quote.InAmount,
		User:      quote.User,
		Signature: signature,
		DexTx:     dexTx,
	}
	if _, err := s.client.SwapAsync(ctx, chainID, req); err != nil {
		serr := &SubmissionError{SessionID: quote.SessionID, Err: err}
		metrics.SubmissionErrors.WithLabelValues(strconv.Itoa(chainID)).Inc()
		s.logger.ErrorWithChain(chainID, "%v", serr)
		return
	}
	s.logger.DebugWithChain(chainID, "Swap %s submitted", quote.SessionID)
}
