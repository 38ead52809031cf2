package dto

import (
	"net/http"
	"strings"
)

// Cross-cutting error codes used by the HTTP layer itself
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes with an INVALID_ prefix not listed here fall back to 400.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INVALID_TRANSITION": http.StatusUnprocessableEntity,
	"CANNOT_DELETE":      http.StatusUnprocessableEntity,
	"OVERPAYMENT":        http.StatusUnprocessableEntity,

	// Auth
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_SESSION":     http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"SESSION_EXPIRED":     http.StatusUnauthorized,
	"MISSING_EMAIL":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code. Field
// validation codes (INVALID_NAME, INVALID_EMAIL, ...) map to 400; anything
// unrecognized is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
