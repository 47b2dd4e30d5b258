package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	QuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liquidityhub_quotes_total",
		Help: "The total number of quote requests by outcome",
	}, []string{"chain_id", "status"})

	QuoteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "liquidityhub_quote_seconds",
		Help:    "Time taken to acquire a quote",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms up to ~25s
	}, []string{"chain_id"})

	SwapsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liquidityhub_swaps_total",
		Help: "The total number of swaps by outcome",
	}, []string{"chain_id", "status"})

	SettlementLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "liquidityhub_settlement_seconds",
		Help:    "Time from swap submission until a settlement hash is observed",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1s up to ~2min
	}, []string{"chain_id"})

	SubmissionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liquidityhub_submission_errors_total",
		Help: "Errors from best-effort swap submissions",
	}, []string{"chain_id"})

	StatusPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liquidityhub_status_polls_total",
		Help: "Settlement status poll requests by result",
	}, []string{"chain_id", "result"})

	DetailPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liquidityhub_detail_polls_total",
		Help: "Transaction detail poll requests by result",
	}, []string{"chain_id", "result"})

	TelemetryFlushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liquidityhub_telemetry_flushes_total",
		Help: "Telemetry record flushes by outcome",
	}, []string{"status"})

	TelemetryAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liquidityhub_telemetry_attempts_total",
		Help: "The number of trade attempt records allocated",
	})
)
