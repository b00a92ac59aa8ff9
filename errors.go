package assistants

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrUnauthorized indicates the API key is missing, malformed, or lacks access.
	ErrUnauthorized = errors.New("assistants: unauthorized")

	// ErrNotFound indicates the thread, message or run does not exist.
	ErrNotFound = errors.New("assistants: not found")

	// ErrRateLimited indicates the API rate limit has been exceeded.
	ErrRateLimited = errors.New("assistants: rate limit exceeded")

	// ErrBadRequest indicates the API rejected the request body or parameters.
	ErrBadRequest = errors.New("assistants: bad request")

	// ErrUnavailable indicates the API is down or returned a 5xx status.
	ErrUnavailable = errors.New("assistants: service unavailable")

	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = errors.New("assistants: network failure")

	// ErrDecode indicates the response body was not a JSON object.
	ErrDecode = errors.New("assistants: response decode failed")

	// ErrInvalidRequest indicates locally supplied options are invalid.
	ErrInvalidRequest = errors.New("assistants: invalid request")
)

// TransportError is returned by Transport implementations for any network,
// HTTP-status or decode failure. Resources return it to the caller unchanged.
type TransportError struct {
	Method     string // HTTP method of the failed call
	Path       string // Request path, e.g. "/threads/thread_abc/runs"
	StatusCode int    // HTTP status code (0 if no response was received)
	Message    string // Error message from the API or the transport
	Retryable  bool   // Whether the call is potentially retryable
	Err        error  // Wrapped sentinel (ErrNotFound, ErrRateLimited, ...)
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.Path, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewStatusError builds a TransportError for a non-2xx HTTP status and picks
// the sentinel and retryability from the status code.
func NewStatusError(method, path string, status int, message string) *TransportError {
	e := &TransportError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    message,
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Err = ErrUnauthorized
	case status == http.StatusNotFound:
		e.Err = ErrNotFound
	case status == http.StatusTooManyRequests:
		e.Err = ErrRateLimited
		e.Retryable = true
	case status == http.StatusRequestTimeout || status == http.StatusConflict:
		e.Err = ErrUnavailable
		e.Retryable = true
	case status >= 500:
		e.Err = ErrUnavailable
		e.Retryable = true
	default:
		e.Err = ErrBadRequest
	}

	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// ValidationError represents an error in locally supplied options.
// Build never returns one: unknown payload fields are dropped, not rejected.
type ValidationError struct {
	Field  string // The option that failed validation
	Value  any    // The invalid value
	Reason string // Human-readable explanation
	Err    error  // Wrapped error (usually ErrInvalidRequest)
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for '%s' (value: %v): %s (%v)", e.Field, e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("validation failed for '%s' (value: %v): %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error is potentially retryable.
// This package never retries; the classification is for callers and transports.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Retryable
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNetwork)
}

// IsAuthError checks if an error is related to authentication.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrUnauthorized) {
		return true
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode == http.StatusUnauthorized || transportErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsNotFound checks if an error reports a missing thread, message or run.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidRequest checks if an error indicates invalid request parameters.
// These errors are not retryable and require request changes.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrBadRequest) {
		return true
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
