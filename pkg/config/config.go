package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
)

// Config holds the configuration of the liquidity hub client
type Config struct {
	ChainID       int
	Partner       string
	QueryString   string
	QuoteTimeout  time.Duration
	Telemetry     TelemetryConfig
	Swap          SwapConfig
	SettingsPath  string
	MetricsPort   string
	MetricsAPIKey string
	// CircuitBreaker guards telemetry delivery
	CircuitBreaker CircuitBreakerConfig
	LoggerConfig   LoggerConfig
}

// TelemetryConfig holds the BI reporting configuration
type TelemetryConfig struct {
	Endpoint string
	Disabled bool
	Debounce time.Duration
}

// SwapConfig holds the settlement polling budgets
type SwapConfig struct {
	StatusPollInterval  time.Duration
	StatusPollAttempts  int
	DetailsPollInterval time.Duration
	DetailsPollAttempts int
	ContinueOnPollError bool
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled        bool
	Threshold      int
	WindowDuration time.Duration
	ResetTimeout   time.Duration
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	chainID, err := GetEnvChainID()
	if err != nil {
		return nil, err
	}

	quoteTimeout, err := GetEnvQuoteTimeout()
	if err != nil {
		return nil, err
	}

	telemetryEndpoint, err := GetEnvTelemetryEndpoint()
	if err != nil {
		return nil, err
	}

	telemetryDisabled, err := GetEnvTelemetryDisabled()
	if err != nil {
		return nil, err
	}

	telemetryDebounce, err := GetEnvTelemetryDebounce()
	if err != nil {
		return nil, err
	}

	statusInterval, err := GetEnvStatusPollInterval()
	if err != nil {
		return nil, err
	}

	statusAttempts, err := GetEnvStatusPollAttempts()
	if err != nil {
		return nil, err
	}

	detailsInterval, err := GetEnvDetailsPollInterval()
	if err != nil {
		return nil, err
	}

	detailsAttempts, err := GetEnvDetailsPollAttempts()
	if err != nil {
		return nil, err
	}

	continueOnPollError, err := GetEnvContinueOnPollError()
	if err != nil {
		return nil, err
	}

	metricsPort, err := GetEnvMetricsPort()
	if err != nil {
		return nil, err
	}

	cbEnabled, err := GetEnvCircuitBreakerEnabled()
	if err != nil {
		return nil, err
	}

	cbThreshold, err := GetEnvCircuitBreakerThreshold()
	if err != nil {
		return nil, err
	}

	cbWindow, err := GetEnvCircuitBreakerWindow()
	if err != nil {
		return nil, err
	}

	cbReset, err := GetEnvCircuitBreakerReset()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ChainID:      chainID,
		Partner:      GetEnvPartner(),
		QueryString:  GetEnvQueryString(),
		QuoteTimeout: quoteTimeout,
		Telemetry: TelemetryConfig{
			Endpoint: telemetryEndpoint,
			Disabled: telemetryDisabled,
			Debounce: telemetryDebounce,
		},
		Swap: SwapConfig{
			StatusPollInterval:  statusInterval,
			StatusPollAttempts:  statusAttempts,
			DetailsPollInterval: detailsInterval,
			DetailsPollAttempts: detailsAttempts,
			ContinueOnPollError: continueOnPollError,
		},
		SettingsPath:  GetEnvSettingsPath(),
		MetricsPort:   metricsPort,
		MetricsAPIKey: GetEnvMetricsAPIKey(),
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:        cbEnabled,
			Threshold:      cbThreshold,
			WindowDuration: cbWindow,
			ResetTimeout:   cbReset,
		},
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}

	// Validate required environment variables
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Partner == "" {
		return fmt.Errorf("PARTNER environment variable is required")
	}
	if cfg.ChainID <= 0 {
		return fmt.Errorf("CHAIN_ID must be greater than 0")
	}
	return nil
}
