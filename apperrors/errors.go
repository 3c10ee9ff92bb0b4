package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType classifies an application error.
type ErrorType string

const (
	// Surfaced to the caller on the synchronous creation path.
	ErrorTypeRateLimited     ErrorType = "RATE_LIMITED"
	ErrorTypeContentRejected ErrorType = "CONTENT_REJECTED"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeExpired         ErrorType = "EXPIRED"
	ErrorTypeAccessDenied    ErrorType = "ACCESS_DENIED"

	// Internal kinds; swallowed at the enrichment/scoring boundary and
	// degraded to deterministic fallbacks, never returned to a handler.
	ErrorTypeEnrichmentUnavailable ErrorType = "ENRICHMENT_UNAVAILABLE"
	ErrorTypeUpstreamFailure       ErrorType = "UPSTREAM_FAILURE"

	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError carries a classified error with an HTTP status and optional
// kind-specific payload (quota limit, flagged moderation categories).
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Limit      int       `json:"limit,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Cause      error     `json:"-"`
	HTTPStatus int       `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewRateLimited creates a quota violation error carrying the configured limit.
func NewRateLimited(message string, limit int) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimited,
		Message:    message,
		Limit:      limit,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// NewContentRejected creates a moderation rejection carrying the flagged
// category list.
func NewContentRejected(message string, categories []string) *AppError {
	return &AppError{
		Type:       ErrorTypeContentRejected,
		Message:    message,
		Categories: categories,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error for the named resource.
func NewNotFound(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", strings.ToLower(resource)),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewExpired marks an item that exists but is past its retention. Distinct
// from NotFound: the row is still addressable, just no longer servable.
func NewExpired(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeExpired,
		Message:    fmt.Sprintf("%s expired", strings.ToLower(resource)),
		HTTPStatus: http.StatusGone,
	}
}

// NewAccessDenied creates an ownership/visibility violation error.
func NewAccessDenied(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return &AppError{
		Type:       ErrorTypeAccessDenied,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewEnrichmentUnavailable signals that the AI capability is absent or
// disabled. Callers must fall back, not propagate.
func NewEnrichmentUnavailable(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeEnrichmentUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewUpstreamFailure wraps a failed external call. Callers at the enrichment
// or scoring boundary must degrade to their deterministic fallback.
func NewUpstreamFailure(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstreamFailure,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewInternal wraps an unexpected failure.
func NewInternal(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// AsAppError extracts an AppError from err, if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
