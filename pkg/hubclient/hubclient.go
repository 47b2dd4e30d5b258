// Package hubclient provides a client for the liquidity hub HTTP API.
package hubclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
)

// ErrNoResult is returned when the hub answers with an empty or unparseable body
var ErrNoResult = errors.New("no result")

// ServerError is any hub response carrying a non-empty error field
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// EndpointResolver maps a chain to the hub base URL
type EndpointResolver interface {
	Endpoint(chainID int) string
}

// QuoteRequest is the body of POST /quote
type QuoteRequest struct {
	InToken   string  `json:"inToken"`
	OutToken  string  `json:"outToken"`
	InAmount  string  `json:"inAmount"`
	OutAmount string  `json:"outAmount"`
	User      string  `json:"user"`
	Slippage  float64 `json:"slippage"`
	QS        string  `json:"qs"`
	Partner   string  `json:"partner"`
}

// SwapRequest is the body of POST /swap-async: the quote fields with the trade fields on top
type SwapRequest struct {
	Quote     *models.Quote
	InToken   string
	OutToken  string
	InAmount  string
	User      string
	Signature string
	DexTx     *models.DexRouterData
}

// MarshalJSON flattens the quote and overrides it with the trade fields
func (r SwapRequest) MarshalJSON() ([]byte, error) {
	body := make(map[string]interface{})
	if r.Quote != nil {
		raw, err := json.Marshal(r.Quote)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
	}
	body["inToken"] = r.InToken
	body["outToken"] = r.OutToken
	body["inAmount"] = r.InAmount
	body["user"] = r.User
	body["signature"] = r.Signature
	if r.DexTx != nil {
		body["dexTx"] = r.DexTx
	}
	return json.Marshal(body)
}

// TxDetailsRequest is the body of POST /tx/{txHash}
type TxDetailsRequest struct {
	OutToken  string `json:"outToken"`
	User      string `json:"user"`
	QS        string `json:"qs"`
	Partner   string `json:"partner"`
	SessionID string `json:"sessionId"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

type txHashResponse struct {
	TxHash string `json:"txHash"`
	Error  string `json:"error"`
}

// Client represents a liquidity hub API client
type Client struct {
	resolver   EndpointResolver
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a new hub API client
func New(resolver EndpointResolver, logger logger.Logger) *Client {
	return &Client{
		resolver:   resolver,
		httpClient: createHTTPClient(),
		logger:     logger,
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// Quote requests a quote for the given trade
func (c *Client) Quote(ctx context.Context, chainID int, req QuoteRequest) (*models.Quote, error) {
	var quote models.Quote
	if err := c.post(ctx, chainID, "/quote", req, &quote); err != nil {
		return nil, err
	}
	if quote.Failed() {
		return nil, &ServerError{Message: quote.Error}
	}
	return &quote, nil
}

// SwapAsync submits a signed quote for matching and returns the hash, if the hub knows it already
func (c *Client) SwapAsync(ctx context.Context, chainID int, req SwapRequest) (string, error) {
	var resp txHashResponse
	if err := c.post(ctx, chainID, "/swap-async", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", &ServerError{Message: resp.Error}
	}
	return resp.TxHash, nil
}

// SwapStatus returns the settlement transaction hash for a session, empty while unsettled
func (c *Client) SwapStatus(ctx context.Context, chainID int, sessionID string, user string) (string, error) {
	body := map[string]string{"user": user}
	var resp txHashResponse
	if err := c.post(ctx, chainID, "/swap/status/"+url.PathEscape(sessionID), body, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", &ServerError{Message: resp.Error}
	}
	return resp.TxHash, nil
}

// TxDetails returns the on-chain details of a settlement transaction
func (c *Client) TxDetails(ctx context.Context, chainID int, txHash string, req TxDetailsRequest) (*models.TxDetails, error) {
	var details struct {
		models.TxDetails
		Error string `json:"error"`
	}
	if err := c.post(ctx, chainID, "/tx/"+url.PathEscape(txHash), req, &details); err != nil {
		return nil, err
	}
	if details.Error != "" {
		return nil, &ServerError{Message: details.Error}
	}
	return &details.TxDetails, nil
}

// post sends body as JSON to {endpoint}{path}?chainId={chainID} and decodes the response into out
func (c *Client) post(ctx context.Context, chainID int, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s?chainId=%d", c.resolver.Endpoint(chainID), path, chainID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Error("Failed to close response body: %v", err)
		}
	}(resp.Body)

	// Read the response body regardless of status code
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	trimmed := bytes.TrimSpace(bodyBytes)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return ErrNoResult
	}

	// The hub reports failures in the body, sometimes with a 200
	var envelope errorEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Error != "" {
		return &ServerError{Message: envelope.Error}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, truncate(string(trimmed), 256))
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		c.logger.DebugWithChain(chainID, "Undecodable response from %s: %s", path, truncate(string(trimmed), 256))
		return fmt.Errorf("%w: %v", ErrNoResult, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}

// Helper function to create an HTTP client with timeouts
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
