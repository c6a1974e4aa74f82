// Package clients provides the shared HTTP client used by every API wrapper
package clients

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ajitpratap0/pagesync/pkg/errors"
)

// HTTPClient wraps net/http with connection pooling, a request timeout and
// an optional client-side rate limit. Every upstream call in pagesync goes
// through one of these; there is deliberately no retry layer, a failed call
// surfaces immediately to the per-record error handling.
type HTTPClient struct {
	config     *HTTPConfig
	logger     *zap.Logger
	httpClient *http.Client
	transport  *http.Transport
	limiter    *rate.Limiter
}

// HTTPConfig configures the HTTP client
type HTTPConfig struct {
	// Connection settings
	MaxIdleConns        int           `json:"max_idle_conns"`
	MaxIdleConnsPerHost int           `json:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `json:"idle_conn_timeout"`

	// Timeouts
	DialTimeout    time.Duration `json:"dial_timeout"`
	RequestTimeout time.Duration `json:"request_timeout"`
	KeepAlive      time.Duration `json:"keep_alive"`

	// TLS settings
	TLSMinVersion uint16 `json:"tls_min_version"`

	// Rate limiting (requests per second, 0 disables)
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`
}

// DefaultHTTPConfig returns defaults sized for sequential batch runs
// against public rate-limited APIs.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
		RequestTimeout:      30 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSMinVersion:       tls.VersionTLS12,
		RateLimit:           3, // Notion's documented average limit
		RateBurst:           3,
	}
}

// NewHTTPClient creates a new HTTP client
func NewHTTPClient(config *HTTPConfig, logger *zap.Logger) *HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}

	client := &HTTPClient{
		config: config,
		logger: logger.With(zap.String("component", "http_client")),
	}

	client.transport = &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSClientConfig: &tls.Config{
			MinVersion: config.TLSMinVersion,
		},
	}

	client.httpClient = &http.Client{
		Transport: client.transport,
		Timeout:   config.RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	if config.RateLimit > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}

	return client
}

// Do performs an HTTP request, honoring the rate limit
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	return c.httpClient.Do(req)
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.doJSON(req, out)
}

// PostJSON encodes body as JSON, performs a POST request and decodes the
// JSON response into out.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, headers map[string]string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPost, url, headers, body, out)
}

// PatchJSON encodes body as JSON, performs a PATCH request and decodes the
// JSON response into out.
func (c *HTTPClient) PatchJSON(ctx context.Context, url string, headers map[string]string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPatch, url, headers, body, out)
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, url string, headers map[string]string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.doJSON(req, out)
}

// doJSON executes the request and decodes the body. Non-2xx responses
// become connection errors carrying the status and a body excerpt so
// callers can log what the upstream actually said.
func (c *HTTPClient) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "request failed").
			WithDetail("url", req.URL.String())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		errType := errors.ErrorTypeConnection
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			errType = errors.ErrorTypeAuthentication
		case http.StatusNotFound:
			errType = errors.ErrorTypeNotFound
		}
		return errors.New(errType, "unexpected status from upstream").
			WithDetail("url", req.URL.String()).
			WithDetail("status", resp.StatusCode).
			WithDetail("body", string(excerpt))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to decode response").
			WithDetail("url", req.URL.String())
	}

	return nil
}

// Close shuts down idle connections
func (c *HTTPClient) Close() {
	c.transport.CloseIdleConnections()
}
