package errors

import "fmt"

// getHTTPErrorCategory maps HTTP status codes to error categories.
// 4xx client errors (except 408 and 429) are irrecoverable, 5xx and anything
// unexpected are recoverable.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		return Recoverable
	}
}

// NewHTTPError creates a TransportError for a non-2xx response.
func NewHTTPError(op, method, url string, statusCode int, body string) *TransportError {
	return &TransportError{
		Op:         op,
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
		Underlying: fmt.Errorf("%s failed: status %d", op, statusCode),
	}
}

// NewNetworkError creates a TransportError for failures below HTTP
// (dial, TLS, timeout, cancelled context).
func NewNetworkError(op, method, url string, err error) *TransportError {
	return &TransportError{Op: op, Method: method, URL: url, Underlying: err}
}

// NewDecodeError creates a TransportError for a 2xx response whose body is not valid JSON.
func NewDecodeError(op, method, url string, statusCode int, body string, err error) *TransportError {
	return &TransportError{
		Op:         op,
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
		Underlying: fmt.Errorf("%w: %w", ErrDecode, err),
	}
}
