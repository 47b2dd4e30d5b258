package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/chains"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/circuitbreaker"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
)

// Session exposes the live telemetry record of the SDK
type Session interface {
	ID() string
}

// Server represents a health check HTTP server
type Server struct {
	port          string
	chainID       int
	resolver      *chains.Resolver
	breaker       *circuitbreaker.CircuitBreaker
	session       Session
	metricsAPIKey string
	logger        logger.Logger
	srv           *http.Server
}

// NewServer creates a new health check server. breaker and session may be nil.
func NewServer(
	port string,
	chainID int,
	resolver *chains.Resolver,
	breaker *circuitbreaker.CircuitBreaker,
	session Session,
	metricsAPIKey string,
	logger logger.Logger,
) *Server {
	s := &Server{
		port:          port,
		chainID:       chainID,
		resolver:      resolver,
		breaker:       breaker,
		session:       session,
		metricsAPIKey: metricsAPIKey,
		logger:        logger,
	}
	s.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// metricsAuthMiddleware is a middleware that checks for a valid API key
func (s *Server) metricsAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if no API key is configured
		if s.metricsAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Get API key from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		// Check if the header has the correct format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		if parts[1] != s.metricsAPIKey {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type endpointStatus struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Active   bool   `json:"active"`
}

type statusResponse struct {
	ChainID   int                       `json:"chain_id"`
	Endpoint  string                    `json:"endpoint"`
	Override  string                    `json:"override,omitempty"`
	Endpoints map[string]endpointStatus `json:"endpoints"`
	Circuit   string                    `json:"circuit"`
	Breaker   *circuitbreaker.State     `json:"breaker,omitempty"`
	RecordID  string                    `json:"record_id,omitempty"`
}

// Handler returns the routes of the health server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Endpoint table, telemetry circuit and live record
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		status := statusResponse{
			ChainID:   s.chainID,
			Endpoint:  s.resolver.Endpoint(s.chainID),
			Override:  s.resolver.Override(),
			Endpoints: make(map[string]endpointStatus),
			Circuit:   "closed",
		}

		ids := append([]int{chains.Ethereum}, chains.ChainList...)
		for _, chainID := range ids {
			status.Endpoints[fmt.Sprintf("chain_%d", chainID)] = endpointStatus{
				Name:     chains.GetChainName(chainID),
				Endpoint: s.resolver.Endpoint(chainID),
				Active:   chainID == s.chainID,
			}
		}

		if s.breaker != nil {
			state := s.breaker.GetState()
			status.Breaker = &state
			if s.breaker.IsOpen() {
				status.Circuit = "open"
			}
		}
		if s.session != nil {
			status.RecordID = s.session.ID()
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			s.logger.Error("Error encoding status JSON: %v", err)
		}
	})

	// Circuit breaker admin control endpoint
	mux.HandleFunc("/circuit/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if s.breaker == nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("No circuit breaker configured"))
			return
		}

		s.breaker.Reset()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Telemetry circuit breaker reset"))
	})

	// Expose Prometheus metrics with API key authentication
	mux.Handle("/metrics", s.metricsAuthMiddleware(promhttp.Handler()))

	return mux
}

// Start serves the health routes until Shutdown is called
func (s *Server) Start() {
	s.logger.Info("Starting health and metrics server on port %s", s.port)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Health server error: %v", err)
	}
}

// Shutdown stops the server started by Start
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
