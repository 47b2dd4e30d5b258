package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/analytics"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/chains"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
)

const (
	// DefaultChainID defines the chain traded on when CHAIN_ID is unset
	DefaultChainID = chains.Polygon

	// DefaultQuoteTimeout defines how long a quote request may take
	DefaultQuoteTimeout = 10 * time.Second

	// DefaultTelemetryDebounce defines how long telemetry waits for further updates before a flush
	DefaultTelemetryDebounce = time.Second

	// DefaultStatusPollInterval defines the wait between settlement status polls
	DefaultStatusPollInterval = 2000 * time.Millisecond

	// DefaultStatusPollAttempts defines the number of settlement status polls before a swap times out
	DefaultStatusPollAttempts = 60

	// DefaultDetailsPollInterval defines the wait between transaction detail polls
	DefaultDetailsPollInterval = 2500 * time.Millisecond

	// DefaultDetailsPollAttempts defines the number of transaction detail polls
	DefaultDetailsPollAttempts = 10

	// DefaultSettingsPath defines where local settings are read from
	DefaultSettingsPath = "liquidityhub.yaml"

	// DefaultMetricsPort defines the default port for the metrics server
	DefaultMetricsPort = "8080"

	// DefaultCircuitBreakerEnabled defines whether the circuit breaker is enabled
	DefaultCircuitBreakerEnabled = true

	// DefaultCircuitBreakerThreshold defines the number of failures before the circuit breaker trips
	DefaultCircuitBreakerThreshold = 5

	// DefaultCircuitBreakerWindow defines the time window for the circuit breaker
	DefaultCircuitBreakerWindow = 60

	// DefaultCircuitBreakerReset defines the reset timeout for the circuit breaker
	DefaultCircuitBreakerReset = 120

	// DefaultLogLevel defines the log level when LOG_LEVEL is unset
	DefaultLogLevel = logger.InfoLevel
)

// GetEnvChainID returns the chain id from environment variables
func GetEnvChainID() (int, error) {
	chainID := os.Getenv("CHAIN_ID")
	if chainID == "" {
		return DefaultChainID, nil
	}

	id, err := strconv.Atoi(chainID)
	if err != nil {
		return 0, fmt.Errorf("invalid CHAIN_ID value: %s, must be an integer", chainID)
	}
	if id <= 0 {
		return 0, fmt.Errorf("CHAIN_ID must be greater than 0")
	}
	return id, nil
}

// GetEnvPartner returns the partner name reported with quotes
func GetEnvPartner() string {
	return strings.TrimSpace(os.Getenv("PARTNER"))
}

// GetEnvQueryString returns the attribution query string forwarded with quotes
func GetEnvQueryString() string {
	return os.Getenv("QUERY_STRING")
}

// GetEnvQuoteTimeout returns the quote timeout from environment variables
func GetEnvQuoteTimeout() (time.Duration, error) {
	return getEnvPositiveDuration("QUOTE_TIMEOUT", DefaultQuoteTimeout)
}

// GetEnvTelemetryEndpoint returns the BI endpoint from environment variables
func GetEnvTelemetryEndpoint() (string, error) {
	endpoint := os.Getenv("TELEMETRY_ENDPOINT")
	if endpoint == "" {
		return analytics.DefaultEndpoint, nil
	}

	// Validate URL format
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", fmt.Errorf("invalid TELEMETRY_ENDPOINT value: %s, must be a valid URL", endpoint)
	}
	return endpoint, nil
}

// GetEnvTelemetryDisabled returns whether telemetry is disabled
func GetEnvTelemetryDisabled() (bool, error) {
	return getEnvBool("TELEMETRY_DISABLED", false)
}

// GetEnvTelemetryDebounce returns the telemetry flush debounce from environment variables
func GetEnvTelemetryDebounce() (time.Duration, error) {
	return getEnvPositiveDuration("TELEMETRY_DEBOUNCE", DefaultTelemetryDebounce)
}

// GetEnvStatusPollInterval returns the settlement status poll interval
func GetEnvStatusPollInterval() (time.Duration, error) {
	return getEnvPositiveDuration("STATUS_POLL_INTERVAL", DefaultStatusPollInterval)
}

// GetEnvStatusPollAttempts returns the settlement status poll budget
func GetEnvStatusPollAttempts() (int, error) {
	return getEnvPositiveInt("STATUS_POLL_ATTEMPTS", DefaultStatusPollAttempts)
}

// GetEnvDetailsPollInterval returns the transaction detail poll interval
func GetEnvDetailsPollInterval() (time.Duration, error) {
	return getEnvPositiveDuration("DETAILS_POLL_INTERVAL", DefaultDetailsPollInterval)
}

// GetEnvDetailsPollAttempts returns the transaction detail poll budget
func GetEnvDetailsPollAttempts() (int, error) {
	return getEnvPositiveInt("DETAILS_POLL_ATTEMPTS", DefaultDetailsPollAttempts)
}

// GetEnvContinueOnPollError returns whether a failed poll keeps the watch alive
func GetEnvContinueOnPollError() (bool, error) {
	return getEnvBool("CONTINUE_ON_POLL_ERROR", false)
}

// GetEnvSettingsPath returns the path of the local settings file
func GetEnvSettingsPath() string {
	path := os.Getenv("SETTINGS_PATH")
	if path == "" {
		return DefaultSettingsPath
	}
	return path
}

// GetEnvMetricsPort returns the metrics server port from environment variables
func GetEnvMetricsPort() (string, error) {
	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		return DefaultMetricsPort, nil
	}

	// Validate port format
	if _, err := strconv.Atoi(metricsPort); err != nil {
		return "", fmt.Errorf("invalid METRICS_PORT value: %s, must be a valid integer", metricsPort)
	}
	return metricsPort, nil
}

// GetEnvMetricsAPIKey returns the bearer key protecting /metrics, empty for none
func GetEnvMetricsAPIKey() string {
	return os.Getenv("METRICS_API_KEY")
}

// GetEnvCircuitBreakerEnabled returns whether the circuit breaker is enabled from environment variables
func GetEnvCircuitBreakerEnabled() (bool, error) {
	return getEnvBool("CIRCUIT_BREAKER_ENABLED", DefaultCircuitBreakerEnabled)
}

// GetEnvCircuitBreakerThreshold returns the circuit breaker threshold from environment variables
func GetEnvCircuitBreakerThreshold() (int, error) {
	return getEnvPositiveInt("CIRCUIT_BREAKER_THRESHOLD", DefaultCircuitBreakerThreshold)
}

// GetEnvCircuitBreakerWindow returns the circuit breaker window duration from environment variables
func GetEnvCircuitBreakerWindow() (time.Duration, error) {
	return getEnvPositiveDuration("CIRCUIT_BREAKER_WINDOW", DefaultCircuitBreakerWindow*time.Second)
}

// GetEnvCircuitBreakerReset returns the circuit breaker reset timeout from environment variables
func GetEnvCircuitBreakerReset() (time.Duration, error) {
	return getEnvPositiveDuration("CIRCUIT_BREAKER_RESET", DefaultCircuitBreakerReset*time.Second)
}

// GetEnvLogLevel returns the log level from environment variables
func GetEnvLogLevel() (logger.Level, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return DefaultLogLevel, nil
	}

	parsed, err := logger.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL value: %s, must be one of debug, info, notice, error", level)
	}
	return parsed, nil
}

// GetEnvLogColoring returns whether log output is colored
func GetEnvLogColoring() (bool, error) {
	return getEnvBool("LOG_COLORING", true)
}

func getEnvBool(name string, def bool) (bool, error) {
	value := os.Getenv(name)
	if value == "" {
		return def, nil
	}

	if value == "true" {
		return true, nil
	} else if value == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid %s value: %s, must be 'true' or 'false'", name, value)
}

func getEnvPositiveInt(name string, def int) (int, error) {
	value := os.Getenv(name)
	if value == "" {
		return def, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %s, must be an integer", name, value)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", name)
	}
	return parsed, nil
}

func getEnvPositiveDuration(name string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return def, nil
	}

	// Validate duration format
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %s, must be a valid duration string", name, value)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", name)
	}
	return parsed, nil
}
