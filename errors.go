package geomaps

import (
	"errors"
	"fmt"
	"time"
)

// Error is the marker interface satisfied by every failure the SDK
// produces. Callers that do not care which kind occurred can stop at
// IsLocationError; targeted handling uses errors.As with one of the
// concrete types below.
type Error interface {
	error
	locationError()
}

// IsLocationError reports whether err, or anything it wraps, originated
// in this SDK.
func IsLocationError(err error) bool {
	var le Error
	return errors.As(err, &le)
}

// ValidationError reports caller-supplied input that violates an operation
// precondition. It is always raised before any network I/O.
type ValidationError struct {
	Message string
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return "invalid input: " + e.Message }

func (e *ValidationError) locationError() {}

// AuthenticationError reports a rejected or missing credential. Retrying
// without fixing the credential will not help.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return "authentication failed: " + e.Message }

func (e *AuthenticationError) locationError() {}

// RateLimitError reports that the vendor throttled the request. RetryAfter
// is the vendor's suggested backoff, zero when the vendor gave none.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: %s (retry after %s)", e.Message, e.RetryAfter)
	}
	return "rate limited: " + e.Message
}

func (e *RateLimitError) locationError() {}

// APIError covers every other vendor-side or transport failure: non-2xx
// responses, malformed payloads, and network errors. StatusCode and Body
// are zero/empty when no HTTP response was received.
type APIError struct {
	StatusCode int
	Body       string
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := "api error"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Cause }

func (e *APIError) locationError() {}

// NoRouteError reports that the routing engine found no path between two
// valid points. It is a domain outcome, not a transport failure.
type NoRouteError struct {
	Source Coordinate
	Target Coordinate
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route found from %s to %s", e.Source, e.Target)
}

func (e *NoRouteError) locationError() {}
