// Package api is the HTTP client for the discovery backend.
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

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when no backend URL is configured.
const DefaultBaseURL = "http://localhost:3001"

// RequestIDHeader carries a per-request id for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// Options tune a Client. Zero values pick the defaults.
type Options struct {
	Timeout time.Duration
	// RateLimit caps outgoing requests per second; 0 means 10/s.
	RateLimit float64
	Logger    *slog.Logger
}

// Client talks to the discovery backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a new backend client.
func New(baseURL string, opts Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	burst := int(opts.RateLimit)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), burst),
		logger:  opts.Logger,
	}
}

// apiError is a non-success response the client could not classify.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// errorBody covers the error shapes the backend answers with.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logger.Debug("api: request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("api: request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		msg := eb.text()
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		case resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrForbidden, msg)
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: HTTP %d: %s", ErrServer, resp.StatusCode, msg)
		default:
			return &apiError{Status: resp.StatusCode, Message: msg}
		}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
