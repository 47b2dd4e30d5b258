// Package liquidityhub is the entry point of the SDK. It wires the quote fetcher, the
// swap service and the telemetry aggregator around one hub client.
package liquidityhub

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/analytics"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/chains"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/circuitbreaker"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/hubclient"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/quote"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/swap"
)

// Config holds the SDK settings
type Config struct {
	ChainID     int
	Partner     string
	QueryString string
	// QuoteTimeout bounds each quote request, quote.DefaultTimeout when zero
	QuoteTimeout time.Duration
	// APIURL overrides the per-chain hub endpoint
	APIURL string
	Swap   swap.Config

	TelemetryEndpoint    string
	TelemetryDebounce    time.Duration
	DisableTelemetry     bool
	LiquidityHubDisabled bool
}

// SDK is a liquidity hub session for one partner and chain
type SDK struct {
	config    Config
	resolver  *chains.Resolver
	hub       *hubclient.Client
	analytics *analytics.Aggregator
	quotes    *quote.Fetcher
	swaps     *swap.Service
	logger    logger.Logger

	httpClient *http.Client
	sender     analytics.Sender
	breaker    *circuitbreaker.CircuitBreaker
	aggOpts    []analytics.Option
}

// Option customizes an SDK
type Option func(*SDK)

// WithLogger sets the logger shared by every component
func WithLogger(l logger.Logger) Option {
	return func(s *SDK) { s.logger = l }
}

// WithHTTPClient sets the HTTP client used for hub requests
func WithHTTPClient(c *http.Client) Option {
	return func(s *SDK) { s.httpClient = c }
}

// WithSender replaces the telemetry sender
func WithSender(sender analytics.Sender) Option {
	return func(s *SDK) { s.sender = sender }
}

// WithTelemetryBreaker guards the default telemetry sender with a circuit breaker
func WithTelemetryBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(s *SDK) { s.breaker = cb }
}

// WithAnalyticsOptions passes options to the telemetry aggregator
func WithAnalyticsOptions(opts ...analytics.Option) Option {
	return func(s *SDK) { s.aggOpts = append(s.aggOpts, opts...) }
}

// New creates an SDK and reports the module as loaded
func New(cfg Config, opts ...Option) (*SDK, error) {
	if cfg.ChainID <= 0 {
		return nil, fmt.Errorf("chain id is required")
	}
	if cfg.Partner == "" {
		return nil, fmt.Errorf("partner is required")
	}

	s := &SDK{
		config: cfg,
		logger: &logger.EmptyLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.resolver = chains.NewResolver(cfg.APIURL)
	s.hub = hubclient.New(s.resolver, s.logger)
	if s.httpClient != nil {
		s.hub.WithHTTPClient(s.httpClient)
	}

	sender := s.sender
	switch {
	case cfg.DisableTelemetry:
		sender = analytics.NopSender{}
	case sender == nil:
		sender = analytics.NewHTTPSender(cfg.TelemetryEndpoint, s.breaker, s.logger)
	}
	aggOpts := []analytics.Option{analytics.WithLogger(s.logger), analytics.WithDebounce(cfg.TelemetryDebounce)}
	s.analytics = analytics.New(sender, append(aggOpts, s.aggOpts...)...)
	s.analytics.ModuleLoaded(cfg.LiquidityHubDisabled)
	s.analytics.Init(cfg.Partner, cfg.ChainID)

	s.quotes = quote.NewFetcher(s.hub, s.analytics, quote.Config{
		ChainID:     cfg.ChainID,
		Partner:     cfg.Partner,
		QueryString: cfg.QueryString,
		Timeout:     cfg.QuoteTimeout,
	}, s.logger)
	s.swaps = swap.NewService(s.hub, s.analytics, cfg.Swap, s.logger)

	s.logger.InfoWithChain(cfg.ChainID, "Liquidity hub SDK ready for partner %s at %s", cfg.Partner, s.resolver.Endpoint(cfg.ChainID))
	return s, nil
}

// GetQuote requests a quote for the intent
func (s *SDK) GetQuote(ctx context.Context, intent models.TradeIntent) (*models.Quote, error) {
	return s.quotes.FetchQuote(ctx, intent)
}

// Swap submits a signed quote and waits for its settlement
func (s *SDK) Swap(ctx context.Context, q *models.Quote, signature string, dexTx *models.DexRouterData) (*models.SettlementResult, error) {
	return s.swaps.Submit(ctx, q, signature, s.config.ChainID, dexTx)
}

// GetTransactionDetails polls the hub until txHash is mined. quote may be nil.
func (s *SDK) GetTransactionDetails(ctx context.Context, txHash string, q *models.Quote) (*models.TxDetails, error) {
	return s.swaps.TxDetails(ctx, s.config.ChainID, txHash, q)
}

// Analytics returns the telemetry aggregator of the session
func (s *SDK) Analytics() *analytics.Aggregator {
	return s.analytics
}

// Resolver returns the endpoint resolver in use
func (s *SDK) Resolver() *chains.Resolver {
	return s.resolver
}

// ChainID returns the chain the SDK trades on
func (s *SDK) ChainID() int {
	return s.config.ChainID
}

// Close flushes pending telemetry
func (s *SDK) Close() {
	s.analytics.Close()
}
