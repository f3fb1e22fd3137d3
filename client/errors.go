package client

import (
	"errors"

	errs "github.com/vlm-annotator/annotator/client/internal/errors"
)

// TransportError is returned by every failing call. Inspect StatusCode,
// Timeout() or errors.Unwrap to branch on the underlying cause.
type TransportError = errs.TransportError

// ErrorCategory reports whether retrying a failure could help.
type ErrorCategory = errs.ErrorCategory

const (
	Recoverable   = errs.Recoverable
	Irrecoverable = errs.Irrecoverable
)

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	ErrUnsupported = errs.ErrUnsupported
	ErrNoOrigin    = errs.ErrNoOrigin
	ErrNotFound    = errs.ErrNotFound
	ErrDecode      = errs.ErrDecode
)

// IsTimeout reports whether err is a request that ran out of time.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout()
}

// IsIrrecoverable reports whether retrying err cannot succeed.
func IsIrrecoverable(err error) bool { return errs.IsIrrecoverable(err) }
