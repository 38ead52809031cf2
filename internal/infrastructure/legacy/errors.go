package legacy

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors for matching with errors.Is
var (
	ErrUnauthorized = errors.New("legacy: unauthorized")
	ErrNotFound     = errors.New("legacy: object not found")
	ErrRateLimited  = errors.New("legacy: rate limited")
	ErrTransient    = errors.New("legacy: transient server error")
	ErrNetwork      = errors.New("legacy: network error")
)

// APIError carries the status and body of a failed request. It wraps one
// of the sentinel errors above so callers can match by class.
type APIError struct {
	StatusCode int
	Body       string
	// RetryAfter is the server-requested backoff for 429 responses,
	// zero when absent.
	RetryAfter time.Duration
	kind       error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("legacy: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Unwrap exposes the error class for errors.Is
func (e *APIError) Unwrap() error {
	return e.kind
}

// Retryable reports whether the error class warrants a retry
func (e *APIError) Retryable() bool {
	return errors.Is(e.kind, ErrRateLimited) || errors.Is(e.kind, ErrTransient)
}

// newAPIError classifies a response status into the error taxonomy
func newAPIError(statusCode int, body string, retryAfter time.Duration) *APIError {
	e := &APIError{StatusCode: statusCode, Body: body, RetryAfter: retryAfter}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.kind = ErrUnauthorized
	case statusCode == http.StatusNotFound:
		e.kind = ErrNotFound
	case statusCode == http.StatusTooManyRequests:
		e.kind = ErrRateLimited
	case statusCode == http.StatusRequestTimeout || statusCode >= 500:
		e.kind = ErrTransient
	default:
		e.kind = fmt.Errorf("legacy: unexpected status %d", statusCode)
	}
	return e
}

// isRetryable reports whether the error should be retried: transient and
// rate-limited API errors, plus transport-level failures.
func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return errors.Is(err, ErrNetwork)
}
