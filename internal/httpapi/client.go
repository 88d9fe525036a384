// Package httpapi provides the rate-limited HTTP transport shared by the
// arXiv and Semantic Scholar clients.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "papernet/1.0 (+https://github.com/matsen/papernet)"

	// DefaultMaxRetries is the number of retries on 429 and 5xx responses.
	DefaultMaxRetries = 2

	// DefaultRetryDelay is used when the server does not send Retry-After.
	DefaultRetryDelay = 2 * time.Second

	// maxErrorBody bounds how much of an error response is kept in APIError.
	maxErrorBody = 4 << 10
)

// Client is a rate-limited HTTP client for JSON and XML APIs.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	userAgent    string
	headers      map[string]string
	apiKey       string
	apiKeyHeader string
	maxRetries   int
	retryDelay   time.Duration
	logger       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the sustained request rate (requests per second) and burst.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithAPIKey sends key in the given header with every request.
func WithAPIKey(header, key string) Option {
	return func(c *Client) {
		c.apiKeyHeader = header
		c.apiKey = key
	}
}

// WithRetries sets the number of retries on 429 and 5xx responses and the
// fallback delay between them.
func WithRetries(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a new Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		userAgent:  DefaultUserAgent,
		headers:    make(map[string]string),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and returns the response if its status is 2xx.
// Error statuses are mapped to ErrNotFound, ErrAuthError, ErrRateLimited or
// *APIError. The caller must close the returned body.
func (c *Client) Get(ctx context.Context, url, accept string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		if c.apiKey != "" && c.apiKeyHeader != "" {
			req.Header.Set(c.apiKeyHeader, c.apiKey)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
		}

		c.logger.Debug().
			Str("url", url).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(start)).
			Int("attempt", attempt+1).
			Msg("http request")

		if shouldRetry(resp.StatusCode) && attempt < c.maxRetries {
			delay := c.retryDelayFor(resp)
			drain(resp)
			c.logger.Warn().
				Str("url", url).
				Int("status", resp.StatusCode).
				Dur("delay", delay).
				Msg("retrying request")
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		if err := checkStatus(resp, url); err != nil {
			drain(resp)
			return nil, err
		}
		return resp, nil
	}
}

// checkStatus returns an error if the HTTP response indicates a problem.
func checkStatus(resp *http.Response, url string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        url,
		}
	}
}

func shouldRetry(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// retryDelayFor honors a Retry-After header given in seconds or as an HTTP date.
func (c *Client) retryDelayFor(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return c.retryDelay
	}
	if seconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(retryAfter); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return c.retryDelay
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
