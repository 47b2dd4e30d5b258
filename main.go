package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/analytics"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/circuitbreaker"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/config"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/health"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/liquidityhub"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/settings"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/swap"
)

func main() {
	fromToken := flag.String("from", "", "token to sell")
	toToken := flag.String("to", "", "token to buy")
	amount := flag.String("amount", "", "amount to sell, in the token's base units")
	account := flag.String("account", "", "trader address")
	slippage := flag.Float64("slippage", 0.5, "slippage tolerance in percent")
	dexOut := flag.String("dex-out", "", "DEX reference min amount out")
	serve := flag.Bool("serve", false, "keep the health and metrics server running")
	flag.Parse()

	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	local, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	stdLogger := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)
	breaker := circuitbreaker.NewCircuitBreaker(
		"telemetry",
		cfg.CircuitBreaker.Enabled,
		cfg.CircuitBreaker.Threshold,
		cfg.CircuitBreaker.WindowDuration,
		cfg.CircuitBreaker.ResetTimeout,
		stdLogger,
	)

	sdk, err := liquidityhub.New(liquidityhub.Config{
		ChainID:      cfg.ChainID,
		Partner:      cfg.Partner,
		QueryString:  cfg.QueryString,
		QuoteTimeout: cfg.QuoteTimeout,
		APIURL:       local.OverrideAPIURL,
		Swap: swap.Config{
			StatusPollInterval:  cfg.Swap.StatusPollInterval,
			StatusPollAttempts:  cfg.Swap.StatusPollAttempts,
			DetailsPollInterval: cfg.Swap.DetailsPollInterval,
			DetailsPollAttempts: cfg.Swap.DetailsPollAttempts,
			ContinueOnPollError: cfg.Swap.ContinueOnPollError,
		},
		TelemetryEndpoint:    cfg.Telemetry.Endpoint,
		TelemetryDebounce:    cfg.Telemetry.Debounce,
		DisableTelemetry:     cfg.Telemetry.Disabled,
		LiquidityHubDisabled: local.LiquidityHubDisabled,
	},
		liquidityhub.WithLogger(stdLogger),
		liquidityhub.WithTelemetryBreaker(breaker),
	)
	if err != nil {
		log.Fatalf("Failed to create liquidity hub client: %v", err)
	}

	// Set up context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	healthServer := health.NewServer(
		cfg.MetricsPort,
		cfg.ChainID,
		sdk.Resolver(),
		breaker,
		sdk.Analytics(),
		cfg.MetricsAPIKey,
		stdLogger,
	)
	go healthServer.Start()

	if *fromToken != "" && *toToken != "" && *amount != "" {
		printQuote(ctx, sdk, models.TradeIntent{
			FromToken:       *fromToken,
			ToToken:         *toToken,
			InAmount:        *amount,
			Slippage:        *slippage,
			Account:         *account,
			DexMinAmountOut: *dexOut,
		}, stdLogger)
	}

	if *serve {
		stdLogger.Notice("Serving health and metrics, waiting for termination signal")
		<-ctx.Done()
		stdLogger.Notice("Received termination signal, shutting down gracefully...")
	}

	sdk.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		stdLogger.Error("Failed to stop health server: %v", err)
	}
}

func printQuote(ctx context.Context, sdk *liquidityhub.SDK, intent models.TradeIntent, l logger.Logger) {
	q, err := sdk.GetQuote(ctx, intent)
	if err != nil {
		l.ErrorWithChain(sdk.ChainID(), "%v", err)
		return
	}

	record := sdk.Analytics().Snapshot()
	out := struct {
		Quote            *models.Quote `json:"quote"`
		PriceDiffPercent string        `json:"clobDexPriceDiffPercent"`
		RecordID         string        `json:"recordId"`
		Version          float64       `json:"analyticsVersion"`
	}{q, record.ClobDexPriceDiffPercent, record.ID, analytics.Version}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		l.Error("Failed to print quote: %v", err)
	}
}
