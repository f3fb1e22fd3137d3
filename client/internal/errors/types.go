// Package errors provides the single transport error type returned by the
// client SDK, plus a recoverability classification for callers that retry.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory tells retrying callers (for example the bulk importer) how a
// failure should be handled. The facade itself never acts on it.
type ErrorCategory int

const (
	// Recoverable errors may succeed if retried with backoff.
	// Examples: 500 Internal Server Error, timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail the same way every time.
	// Examples: 400 Bad Request, 404 Not Found, malformed response bodies.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

var (
	// ErrUnsupported marks an operation the configured backend does not implement.
	ErrUnsupported = errors.New("operation not supported by backend")

	// ErrNoOrigin marks a request attempted in relative URL mode without an origin.
	ErrNoOrigin = errors.New("relative base URL has no origin to send requests to")

	// ErrNotFound matches any TransportError carrying HTTP 404.
	ErrNotFound = errors.New("resource not found")

	// ErrDecode wraps malformed JSON response bodies.
	ErrDecode = errors.New("malformed response body")
)

// TransportError is the one failure shape of every SDK call: connection
// failure, timeout, non-2xx status, decode failure or an unsupported
// operation. The original error is kept in Underlying.
type TransportError struct {
	Op         string // SDK operation, e.g. "get config"
	Method     string
	URL        string
	StatusCode int    // 0 when no HTTP response was received
	Body       string // response body for diagnostics
	Underlying error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s %s: HTTP %d: %v", e.Op, e.Method, e.URL, e.StatusCode, e.Underlying)
	}
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Underlying)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *TransportError) Unwrap() error {
	return e.Underlying
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *TransportError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Timeout reports whether the request ran out of time.
func (e *TransportError) Timeout() bool {
	var t interface{ Timeout() bool }
	if errors.As(e.Underlying, &t) && t.Timeout() {
		return true
	}
	return e.StatusCode == http.StatusRequestTimeout
}

// Category classifies the failure for retry policies.
func (e *TransportError) Category() ErrorCategory {
	switch {
	case errors.Is(e.Underlying, ErrUnsupported),
		errors.Is(e.Underlying, ErrNoOrigin),
		errors.Is(e.Underlying, ErrDecode):
		return Irrecoverable
	case e.StatusCode == 0:
		// Network-level errors may be transient.
		return Recoverable
	default:
		return getHTTPErrorCategory(e.StatusCode)
	}
}

// IsIrrecoverable returns true if err carries a TransportError that should not be retried.
func IsIrrecoverable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Category() == Irrecoverable
	}
	return false
}
