// Package dwd is the HTTP transport for the DWD app API. It issues one GET
// per call and hands back the raw JSON body; all interpretation of that JSON
// happens in the domain layer.
package dwd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/dwd-mcp/internal/observability"
)

// DefaultBaseURL is the public DWD app API.
const DefaultBaseURL = "https://dwd.api.bund.dev"

// APIError is the batch-level failure tier: a transport error, a non-2xx
// status, or a malformed top-level JSON body. It carries the failing
// endpoint and the underlying cause.
type APIError struct {
	Endpoint string
	Err      error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client fetches raw JSON from the DWD API. It holds no request-scoped state
// and is safe to reuse across invocations.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a DWD API client. The timeout bounds every request;
// the core performs no retries.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch performs one GET against baseURL+endpoint and returns the body as
// raw JSON. Any failure, including an unparseable top-level body, comes back
// as an *APIError.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	start := time.Now()
	body, err := c.doRequest(ctx, fullURL)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Error("dwd request failed", "endpoint", endpoint, "error", err)
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}

	if !json.Valid(body) {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &APIError{Endpoint: endpoint, Err: errors.New("response body is not valid JSON")}
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return json.RawMessage(body), nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dwd request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("dwd API error: status %d: %s", resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
