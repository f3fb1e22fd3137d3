package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCategory(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  *TransportError
		want ErrorCategory
	}{
		{"500", NewHTTPError("op", http.MethodGet, "u", 500, ""), Recoverable},
		{"503", NewHTTPError("op", http.MethodGet, "u", 503, ""), Recoverable},
		{"429", NewHTTPError("op", http.MethodGet, "u", 429, ""), Recoverable},
		{"408", NewHTTPError("op", http.MethodGet, "u", 408, ""), Recoverable},
		{"400", NewHTTPError("op", http.MethodPost, "u", 400, ""), Irrecoverable},
		{"404", NewHTTPError("op", http.MethodGet, "u", 404, ""), Irrecoverable},
		{"network", NewNetworkError("op", http.MethodGet, "u", errors.New("dial")), Recoverable},
		{"decode", NewDecodeError("op", http.MethodGet, "u", 200, "{", errors.New("eof")), Irrecoverable},
		{"unsupported", &TransportError{Op: "op", Underlying: ErrUnsupported}, Irrecoverable},
	}
	for _, tc := range cases {
		if got := tc.err.Category(); got != tc.want {
			t.Fatalf("%s: category %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("wrapped: %w", NewHTTPError("get annotation", http.MethodGet, "u", 404, ""))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected 404 to match ErrNotFound")
	}
	if errors.Is(NewHTTPError("x", http.MethodGet, "u", 500, ""), ErrNotFound) {
		t.Fatal("500 must not match ErrNotFound")
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()
	te := NewNetworkError("op", http.MethodGet, "u", context.DeadlineExceeded)
	if !te.Timeout() {
		t.Fatal("deadline exceeded should report Timeout")
	}
	if NewNetworkError("op", http.MethodGet, "u", errors.New("refused")).Timeout() {
		t.Fatal("plain error should not report Timeout")
	}
}

func TestIsIrrecoverable(t *testing.T) {
	t.Parallel()
	if !IsIrrecoverable(fmt.Errorf("x: %w", NewHTTPError("op", http.MethodGet, "u", 400, ""))) {
		t.Fatal("wrapped 400 should be irrecoverable")
	}
	if IsIrrecoverable(errors.New("plain")) {
		t.Fatal("plain error is not classified")
	}
}

func TestUnwrapKeepsOriginal(t *testing.T) {
	t.Parallel()
	orig := errors.New("connection reset")
	te := NewNetworkError("op", http.MethodGet, "u", orig)
	if !errors.Is(te, orig) {
		t.Fatal("expected original error in chain")
	}
	if te.Error() == "" {
		t.Fatal("empty error string")
	}
}
