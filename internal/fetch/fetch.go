// Package fetch provides generic HTTP/JSON fetching for the public data services.
// This package centralizes request construction, rate limiting, retry, and the
// error taxonomy shared by the browse and lookup clients.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "neo-data/1.0 (+https://github.com/yaman1337/neo-data)"

// DefaultMaxRetries bounds the retry loop for transient failures.
const DefaultMaxRetries = 3

// RequestError represents a transport-level failure reaching a service.
type RequestError struct {
	URL     string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("request error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("request error for %s: %s", e.URL, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// StatusError represents a non-success HTTP status from a service.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP status %d from %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether the status indicates an unrecognized resource.
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// DecodeError represents a response body that is not valid JSON or is missing
// an expected field.
type DecodeError struct {
	URL     string
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("decode error for %s: %s", e.URL, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Options configures client behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	MaxRetries int
	// RequestsPerSecond bounds the request rate against the remote service.
	// Zero disables rate limiting.
	RequestsPerSecond int
}

// DefaultOptions returns sensible defaults for the public NASA/JPL services,
// which are rate limited per credential.
func DefaultOptions() *Options {
	return &Options{
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		MaxRetries:        DefaultMaxRetries,
		RequestsPerSecond: 5,
	}
}

// Client issues GET requests against a single base URL.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RequestsPerSecond)), 1)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  opts.UserAgent,
		baseURL:    baseURL,
		limiter:    limiter,
		maxRetries: opts.MaxRetries,
	}
}

// BaseURL returns the base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues a GET with the given query parameters and decodes the JSON
// response body into target. Transient failures (transport errors, 429, 5xx)
// are retried with exponential backoff up to the configured limit.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, target any) error {
	body, err := c.Get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &DecodeError{
			URL:     c.requestURL(path, params),
			Message: "response body is not valid JSON",
			Cause:   err,
		}
	}
	return nil
}

// Get issues a GET with the given query parameters and returns the raw
// response body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.requestURL(path, params)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &RequestError{URL: reqURL, Message: "canceled during backoff", Cause: ctx.Err()}
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, &RequestError{URL: reqURL, Message: "canceled waiting for rate limiter", Cause: err}
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, &RequestError{URL: reqURL, Message: "failed to create request", Cause: err}
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &RequestError{URL: reqURL, Message: "HTTP request failed", Cause: err}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{URL: reqURL, StatusCode: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = statusErr
				continue
			}
			return nil, statusErr
		}

		if readErr != nil {
			lastErr = &RequestError{URL: reqURL, Message: "failed to read response body", Cause: readErr}
			continue
		}

		return body, nil
	}

	return nil, lastErr
}

func (c *Client) requestURL(path string, params url.Values) string {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
