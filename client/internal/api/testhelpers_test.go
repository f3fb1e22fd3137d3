package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

// newTestTransport points a Transport at baseURL and captures its logs in buf.
func newTestTransport(baseURL string, buf *bytes.Buffer) *Transport {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(5 * time.Second)
	logger := zerolog.Nop()
	if buf != nil {
		logger = zerolog.New(buf)
	}
	return &Transport{HTTP: rc, Log: logger}
}

// newErrTransport returns a Transport whose every request fails below HTTP.
func newErrTransport() *Transport {
	t := newTestTransport("http://example.com/api", nil)
	t.HTTP.SetTransport(&errRT{})
	return t
}
