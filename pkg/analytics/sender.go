package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/circuitbreaker"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
)

// ErrCircuitOpen is returned when telemetry sends are suspended by the circuit breaker
var ErrCircuitOpen = errors.New("telemetry circuit open")

// Sender delivers a telemetry record
type Sender interface {
	Send(ctx context.Context, record Record) error
}

// NopSender discards every record
type NopSender struct{}

func (NopSender) Send(_ context.Context, _ Record) error { return nil }

// HTTPSender posts records as JSON to the BI endpoint
type HTTPSender struct {
	endpoint   string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     logger.Logger
}

// NewHTTPSender creates a sender. breaker may be nil.
func NewHTTPSender(endpoint string, breaker *circuitbreaker.CircuitBreaker, logger logger.Logger) *HTTPSender {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &HTTPSender{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    breaker,
		logger:     logger,
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (s *HTTPSender) WithHTTPClient(httpClient *http.Client) *HTTPSender {
	s.httpClient = httpClient
	return s
}

func (s *HTTPSender) Send(ctx context.Context, record Record) error {
	if s.breaker != nil && s.breaker.IsOpen() {
		return ErrCircuitOpen
	}

	if err := s.post(ctx, record); err != nil {
		if s.breaker != nil {
			s.breaker.RecordFailure()
		}
		return err
	}
	if s.breaker != nil {
		s.breaker.RecordSuccess()
	}
	return nil
}

func (s *HTTPSender) post(ctx context.Context, record Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send record: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	s.logger.Debug("Telemetry record %s sent", record.ID)
	return nil
}
