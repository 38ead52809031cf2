package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fieldops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	baseBackoff = 500 * time.Millisecond
	maxBackoff  = 8 * time.Second
)

// Client talks to the legacy object store. All outbound calls pass
// through a minimum-interval throttle; failed calls are retried with
// capped exponential backoff and jitter.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	throttle   *throttle
	maxRetries int
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a legacy object-store client
func NewClient(cfg config.LegacyConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		throttle:   newThrottle(cfg.MinInterval),
		maxRetries: cfg.MaxRetries,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches a page of records from a collection
func (c *Client) List(ctx context.Context, collection string, offset, limit int) (*Page, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/objects/%s?%s", collection, q.Encode()), nil)
	if err != nil {
		return nil, err
	}
	return decodePage(data)
}

// Get fetches a single record by ID
func (c *Client) Get(ctx context.Context, collection, id string) (Record, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/objects/%s/%s", collection, url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}

	var raw Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("legacy: failed to decode record: %w", err)
	}
	return DecodeRecord(raw), nil
}

// Create writes a new record to a collection
func (c *Client) Create(ctx context.Context, collection string, record Record) (Record, error) {
	body, err := json.Marshal(EncodeRecord(record))
	if err != nil {
		return nil, fmt.Errorf("legacy: failed to encode record: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/objects/%s", collection), body)
	if err != nil {
		return nil, err
	}

	var raw Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("legacy: failed to decode record: %w", err)
	}
	return DecodeRecord(raw), nil
}

// Update overwrites an existing record
func (c *Client) Update(ctx context.Context, collection, id string, record Record) (Record, error) {
	body, err := json.Marshal(EncodeRecord(record))
	if err != nil {
		return nil, fmt.Errorf("legacy: failed to encode record: %w", err)
	}

	data, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/objects/%s/%s", collection, url.PathEscape(id)), body)
	if err != nil {
		return nil, err
	}

	var raw Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("legacy: failed to decode record: %w", err)
	}
	return DecodeRecord(raw), nil
}

// Delete removes a record
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/objects/%s/%s", collection, url.PathEscape(id)), nil)
	return err
}

// do runs a request through the throttle with retries. The body is
// replayed on each attempt.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleepBackoff(ctx, attempt, lastErr); err != nil {
				return nil, err
			}
			c.logger.Debug("retrying legacy request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
			)
		}

		if err := c.throttle.wait(ctx); err != nil {
			return nil, err
		}

		data, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return data, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("legacy: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, string(data), parseRetryAfter(resp))
	}
	return data, nil
}

// sleepBackoff waits before a retry. Backoff doubles per attempt up to a
// cap, with jitter; a server Retry-After overrides the computed delay.
func (c *Client) sleepBackoff(ctx context.Context, attempt int, lastErr error) error {
	delay := baseBackoff << (attempt - 1)
	if delay > maxBackoff {
		delay = maxBackoff
	}
	// Full jitter keeps concurrent retries from aligning
	delay = time.Duration(rand.Int63n(int64(delay))) + delay/2

	var apiErr *APIError
	if errors.As(lastErr, &apiErr) && apiErr.RetryAfter > 0 {
		delay = apiErr.RetryAfter
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
