// Package quote acquires priced offers from the liquidity hub.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/hubclient"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/metrics"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/timeout"
)

// DefaultTimeout bounds a quote request when neither the intent nor the fetcher sets one
const DefaultTimeout = 10 * time.Second

// noDexReference is sent as outAmount when the caller has no DEX price
const noDexReference = "-1"

// Error is returned by FetchQuote for every failure
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("quote failed: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client is the hub endpoint used to request quotes
type Client interface {
	Quote(ctx context.Context, chainID int, req hubclient.QuoteRequest) (*models.Quote, error)
}

// Reporter receives the quote lifecycle
type Reporter interface {
	QuoteRequested(intent models.TradeIntent)
	QuoteSucceeded(quote *models.Quote)
	QuoteFailed(err error)
}

// Config holds fetcher defaults applied to intents that leave them unset
type Config struct {
	ChainID     int
	Partner     string
	QueryString string
	Timeout     time.Duration
}

// Fetcher requests quotes and reports each one
type Fetcher struct {
	client   Client
	reporter Reporter
	config   Config
	logger   logger.Logger
}

// NewFetcher creates a quote fetcher
func NewFetcher(client Client, reporter Reporter, config Config, logger logger.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		reporter: reporter,
		config:   config,
		logger:   logger,
	}
}

// FetchQuote requests a quote for the intent. An invalid intent is rejected before
// anything is reported. Otherwise QuoteRequested is reported first and exactly one of
// QuoteSucceeded or QuoteFailed follows.
func (f *Fetcher) FetchQuote(ctx context.Context, intent models.TradeIntent) (*models.Quote, error) {
	intent = f.withDefaults(intent)
	if err := intent.Validate(); err != nil {
		return nil, &Error{Reason: err.Error(), Err: err}
	}

	chainLabel := strconv.Itoa(intent.ChainID)
	f.reporter.QuoteRequested(intent)
	f.logger.DebugWithChain(intent.ChainID, "Requesting quote %s -> %s for %s", intent.FromToken, intent.ToToken, intent.InAmount)

	started := time.Now()
	q, err := timeout.Do(ctx, f.timeoutFor(intent), func(ctx context.Context) (*models.Quote, error) {
		return f.client.Quote(ctx, intent.ChainID, buildRequest(intent, f.config.QueryString))
	})
	metrics.QuoteLatency.WithLabelValues(chainLabel).Observe(time.Since(started).Seconds())

	if err == nil && q == nil {
		err = hubclient.ErrNoResult
	}
	if err != nil {
		qerr := classify(ctx, err)
		f.reporter.QuoteFailed(qerr)
		metrics.QuotesTotal.WithLabelValues(chainLabel, "failed").Inc()
		f.logger.InfoWithChain(intent.ChainID, "Quote failed: %s", qerr.Reason)
		return nil, qerr
	}

	f.reporter.QuoteSucceeded(q)
	metrics.QuotesTotal.WithLabelValues(chainLabel, "success").Inc()
	f.logger.DebugWithChain(intent.ChainID, "Quote %s: out %s, min out %s", q.SessionID, q.OutAmount, q.MinAmountOut)
	return q, nil
}

func (f *Fetcher) withDefaults(intent models.TradeIntent) models.TradeIntent {
	if intent.ChainID == 0 {
		intent.ChainID = f.config.ChainID
	}
	if intent.Partner == "" {
		intent.Partner = f.config.Partner
	}
	return intent
}

func (f *Fetcher) timeoutFor(intent models.TradeIntent) time.Duration {
	switch {
	case intent.Timeout > 0:
		return intent.Timeout
	case f.config.Timeout > 0:
		return f.config.Timeout
	default:
		return DefaultTimeout
	}
}

func buildRequest(intent models.TradeIntent, qs string) hubclient.QuoteRequest {
	outAmount := intent.DexMinAmountOut
	if !intent.HasDexReference() {
		outAmount = noDexReference
	}
	return hubclient.QuoteRequest{
		InToken:   intent.FromToken,
		OutToken:  intent.ToToken,
		InAmount:  intent.InAmount,
		OutAmount: outAmount,
		User:      intent.Account,
		Slippage:  intent.Slippage,
		QS:        qs,
		Partner:   strings.ToLower(intent.Partner),
	}
}

// classify maps any failure of the quote request to an *Error
func classify(ctx context.Context, err error) *Error {
	var (
		timeoutErr *timeout.Error
		serverErr  *hubclient.ServerError
	)
	switch {
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return &Error{Reason: ctx.Err().Error(), Err: err}
	case errors.As(err, &timeoutErr):
		return &Error{Reason: "timeout", Err: err}
	case errors.As(err, &serverErr):
		return &Error{Reason: serverErr.Message, Err: err}
	case errors.Is(err, hubclient.ErrNoResult):
		return &Error{Reason: hubclient.ErrNoResult.Error(), Err: err}
	default:
		return &Error{Reason: err.Error(), Err: err}
	}
}
