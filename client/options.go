package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to discover
// all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
// Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the per-request timeout (default 30s).
//
// The timeout bounds the total time spent on a single request, including
// connection, redirects and reading the response. It is fixed at
// construction; a caller needing a shorter bound passes a context deadline.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithDebugLogging wraps the transport so each request/response is dumped
// at debug level when enabled is true. Do not enable this in production: the
// dumps include full bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.debug = true
		}
		return nil
	}
}

// WithHTTPClient sends requests through a copy of hc. The copy's Timeout is
// replaced by the client timeout; hc itself is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cp := *hc
		c.httpClient = &cp
		return nil
	}
}

// WithURLMode overrides the URL mode derived from baseURL.
func WithURLMode(m URLMode) Option {
	return func(c *Client) error {
		switch m {
		case URLModeRelative, URLModeAbsoluteDev, URLModeFixedHost:
			c.mode = m
			return nil
		default:
			return fmt.Errorf("unknown url mode %d", int(m))
		}
	}
}

// WithEnvironment sets the deployment environment ("development",
// "production", ...). Only URLModeAbsoluteDev looks at it.
func WithEnvironment(env string) Option {
	return func(c *Client) error {
		c.env = strings.ToLower(strings.TrimSpace(env))
		return nil
	}
}

// WithDevHost sets the backend address used in development (default
// http://localhost:5000).
func WithDevHost(host string) Option {
	return func(c *Client) error {
		origin, err := parseOrigin(host)
		if err != nil {
			return fmt.Errorf("dev host: %w", err)
		}
		c.devHost = origin
		return nil
	}
}

// WithOrigin sets the scheme+host requests are sent to. With a
// root-relative baseURL this is the reverse proxy in front of the backend;
// generated resource URLs stay relative.
func WithOrigin(origin string) Option {
	return func(c *Client) error {
		o, err := parseOrigin(origin)
		if err != nil {
			return fmt.Errorf("origin: %w", err)
		}
		c.host = o
		return nil
	}
}

// WithCapabilities declares which optional endpoints the backend serves.
func WithCapabilities(caps Capability) Option {
	return func(c *Client) error {
		c.caps = caps
		return nil
	}
}

// WithLogger routes failure diagnostics to l instead of the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

func parseOrigin(s string) (string, error) {
	u, err := url.Parse(strings.TrimRight(s, "/"))
	if err != nil {
		return "", err
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute URL", s)
	}
	return u.Scheme + "://" + u.Host, nil
}
