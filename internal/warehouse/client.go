package warehouse

import (
	"bytes"
	"compress/gzip"
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
)

// DefaultBatchSize is the number of concurrent searches per group.
const DefaultBatchSize = 3

// Client makes rate-limited calls to the warehouse API on behalf of one credential.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *limiter
	batchSize  int
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBatchSize sets how many product searches run concurrently per group.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithClock replaces the time source and the context-aware sleep used by the limiter.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		c.limiter = newLimiter(now, sleep)
	}
}

// NewClient creates a warehouse client for the given API root and bearer token.
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if token == "" {
		return nil, fmt.Errorf("%w: token cannot be empty", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: api url %q: %v", ErrInvalidConfig, baseURL, err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    newLimiter(time.Now, sleepContext),
		batchSize:  DefaultBatchSize,
		logger:     logger.With("component", "warehouse"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RateLimit returns a snapshot of the limiter state.
func (c *Client) RateLimit() RateLimiterState {
	return c.limiter.snapshot()
}

// href builds the absolute entity reference the API uses in meta objects and filters.
func (c *Client) href(entity, id string) string {
	return c.baseURL + "entity/" + entity + "/" + id
}

// Do performs one API call and decodes the JSON response into out (which may be nil).
// Throttled responses are retried after the advertised cooldown until ctx ends.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
	}

	for {
		if err := c.limiter.acquire(ctx); err != nil {
			return err
		}

		resp, err := c.send(ctx, method, path, params, payload)
		if err != nil {
			return err
		}

		c.limiter.update(resp.Header)

		if resp.StatusCode == http.StatusTooManyRequests {
			drain(resp)
			cooldown := c.limiter.throttle(resp.Header)
			c.logger.WarnContext(ctx, "rate limit exceeded, retrying after cooldown",
				"method", method,
				"path", path,
				"cooldown", cooldown,
				"error", ErrRateLimited)
			continue
		}

		return c.decode(resp, method, path, out)
	}
}

func (c *Client) send(
	ctx context.Context,
	method, path string,
	params url.Values,
	payload []byte,
) (*http.Response, error) {
	target := c.baseURL + strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept-Encoding", "gzip")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("warehouse %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) decode(resp *http.Response, method, path string, out any) error {
	defer func() { _ = resp.Body.Close() }()

	reader := io.Reader(resp.Body)
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("warehouse %s %s: bad gzip body: %w", method, path, err)
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(reader, maxErrorBody))
		return &APIError{
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Body:   strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, reader)
		return nil
	}
	if err := json.NewDecoder(reader).Decode(out); err != nil {
		return fmt.Errorf("warehouse %s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
