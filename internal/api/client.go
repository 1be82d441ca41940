// Package api is the HTTP client of the six-cities REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sixcities/internal/metrics"
)

const (
	DefaultBaseURL = "https://14.design.htmlacademy.pro/six-cities"
	DefaultTimeout = 5000 * time.Millisecond
	// TokenHeader carries the session token on every request.
	TokenHeader = "X-Token"
)

// TokenStorage is where the client reads the session token from and evicts
// it on 401.
type TokenStorage interface {
	Token(ctx context.Context) (string, error)
	RemoveToken(ctx context.Context) error
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// Client talks to the six-cities REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStorage
	log        *slog.Logger
	metrics    *metrics.Metrics
}

func NewClient(tokens TokenStorage, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	hc := *opts.HTTPClient
	hc.Timeout = opts.Timeout

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &hc,
		tokens:     tokens,
		log:        opts.Logger.With("component", "api_client"),
		metrics:    opts.Metrics,
	}
}

// do performs one request. endpoint is the route template used for logs and
// metrics; path is the concrete path. A non-nil body is sent as JSON and a
// non-nil out receives the decoded response.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn("could not read session token", "error", err)
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveAPI(endpoint, 0, time.Since(start))
		c.log.Debug("request failed", "method", method, "endpoint", endpoint, "error", err)
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveAPI(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.tokens.RemoveToken(ctx); err != nil {
				c.log.Error("failed to evict session token", "error", err)
			}
		}
		c.log.Debug("request rejected", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}
