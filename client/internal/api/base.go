package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	errs "github.com/vlm-annotator/annotator/client/internal/errors"
)

// RequestIDHeader carries a per-request id that also appears in failure logs.
const RequestIDHeader = "X-Request-ID"

// Transport bundles what every endpoint function needs. HTTP must already
// carry the API base URL, default headers and timeout.
type Transport struct {
	HTTP *resty.Client
	Log  zerolog.Logger

	// Unavailable, when set, fails every request without touching the network.
	Unavailable error

	// Observe is called once per request with the outcome ("ok" or "error").
	Observe func(op, outcome string, elapsed time.Duration)
}

// do sends one request and decodes a successful JSON body into out (which may
// be nil). Every failure is logged and returned as *errs.TransportError.
func (t *Transport) do(ctx context.Context, op, method, path string, body any, out any) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return t.fail(start, "", errs.NewNetworkError(op, method, path, err))
	}
	if t.Unavailable != nil {
		return t.fail(start, "", &errs.TransportError{Op: op, Method: method, URL: path, Underlying: t.Unavailable})
	}

	reqID := uuid.NewString()
	req := t.HTTP.R().SetContext(ctx).SetHeader(RequestIDHeader, reqID)
	if body != nil {
		// Marshal here so the payload goes out byte-for-byte as the caller built it.
		b, err := json.Marshal(body)
		if err != nil {
			return t.fail(start, reqID, &errs.TransportError{Op: op, Method: method, URL: path, Underlying: err})
		}
		req.SetBody(b)
	}

	resp, err := req.Execute(method, path)
	url := path
	if resp != nil && resp.Request != nil && resp.Request.URL != "" {
		url = resp.Request.URL
	}
	if err != nil {
		return t.fail(start, reqID, errs.NewNetworkError(op, method, url, err))
	}
	if !resp.IsSuccess() {
		return t.fail(start, reqID, errs.NewHTTPError(op, method, url, resp.StatusCode(), string(resp.Body())))
	}
	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return t.fail(start, reqID, errs.NewDecodeError(op, method, url, resp.StatusCode(), string(resp.Body()), err))
		}
	}

	t.Log.Debug().
		Str("op", op).
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode()).
		Str("request_id", reqID).
		Dur("elapsed", time.Since(start)).
		Msg("API request completed")
	t.observe(op, "ok", start)
	return nil
}

func (t *Transport) fail(start time.Time, reqID string, te *errs.TransportError) error {
	t.Log.Error().
		Err(te.Underlying).
		Str("op", te.Op).
		Str("method", te.Method).
		Str("url", te.URL).
		Int("status", te.StatusCode).
		Str("request_id", reqID).
		Dur("elapsed", time.Since(start)).
		Msg("API error")
	t.observe(te.Op, "error", start)
	return te
}

func (t *Transport) observe(op, outcome string, start time.Time) {
	if t.Observe != nil {
		t.Observe(op, outcome, time.Since(start))
	}
}

// Reject fails an operation before any request is built, with the same
// logging and metrics as a transport failure.
func (t *Transport) Reject(op, method, path string, err error) error {
	return t.fail(time.Now(), "", &errs.TransportError{Op: op, Method: method, URL: path, Underlying: err})
}
