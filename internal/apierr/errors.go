// Package apierr classifies failures surfaced by the Secret Santa backend
// so callers can branch on kind instead of sniffing message strings.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind buckets an API failure for caller-side handling.
type Kind string

const (
	// KindNetwork means no response was received at all.
	KindNetwork Kind = "network"
	// KindAuth is an authentication failure (401).
	KindAuth Kind = "auth"
	// KindForbidden is an authorization failure (403).
	KindForbidden Kind = "forbidden"
	// KindNotFound is a missing named resource (404).
	KindNotFound Kind = "not_found"
	// KindValidation is a rejected request carrying a field-prefixed message.
	KindValidation Kind = "validation"
	// KindRateLimit is a throttled request (429).
	KindRateLimit Kind = "rate_limit"
	// KindServer is a backend failure (5xx).
	KindServer Kind = "server"
	// KindUnknown covers everything else.
	KindUnknown Kind = "unknown"
)

// Error carries the human-readable message parsed from an API error body
// together with the HTTP status that produced it. Status 0 means the
// request never got a response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Kind classifies the error.
func (e *Error) Kind() Kind {
	switch {
	case e.Status == 0:
		return KindNetwork
	case e.Status == http.StatusUnauthorized:
		return KindAuth
	case e.Status == http.StatusForbidden:
		return KindForbidden
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status == http.StatusTooManyRequests:
		return KindRateLimit
	case e.Status >= 500:
		return KindServer
	case isValidationMessage(e.Message):
		return KindValidation
	default:
		return KindUnknown
	}
}

// New builds an Error from a status code and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Network wraps a transport-level failure that produced no response.
func Network(err error) *Error {
	return &Error{Status: 0, Message: fmt.Sprintf("network error: %v", err)}
}

// FromStatus synthesizes an Error when the response body carried no
// structured message.
func FromStatus(status int, statusText string) *Error {
	return &Error{Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, statusText)}
}

// Retryable reports whether the failure is worth re-issuing: network
// failures, rate limits, and server failures are; everything else is not.
func Retryable(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind() {
	case KindNetwork, KindRateLimit, KindServer:
		return true
	default:
		return false
	}
}

// kindOf extracts the kind from any error chain containing an *Error.
func kindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindUnknown
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return kindOf(err) == KindAuth }

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool { return kindOf(err) == KindForbidden }

// IsNotFound reports whether err is a missing-resource failure.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsRateLimit reports whether err is a rate-limit failure.
func IsRateLimit(err error) bool { return kindOf(err) == KindRateLimit }

// isValidationMessage detects the backend's field-prefixed validation
// format, e.g. "email: must be a valid address".
func isValidationMessage(message string) bool {
	idx := strings.Index(message, ":")
	if idx <= 0 {
		return false
	}
	field := message[:idx]
	if strings.ContainsAny(field, " \t") {
		return false
	}
	return true
}
