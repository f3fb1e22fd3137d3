package client

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings is the environment-driven client configuration.
// Variables carry the ANNOTATOR_ prefix, e.g. ANNOTATOR_BASE_URL.
type Settings struct {
	BaseURL      string        `envconfig:"BASE_URL"     default:"/api"`
	Origin       string        `envconfig:"ORIGIN"`
	URLMode      string        `envconfig:"URL_MODE"`
	Environment  string        `envconfig:"ENVIRONMENT"  default:"production"`
	DevHost      string        `envconfig:"DEV_HOST"     default:"http://localhost:5000"`
	Timeout      time.Duration `envconfig:"TIMEOUT"      default:"30s"`
	Capabilities string        `envconfig:"CAPABILITIES" default:"current"`
	Debug        bool          `envconfig:"DEBUG"        default:"false"`
}

// LoadSettings populates Settings from environment variables (prefix ANNOTATOR_).
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("ANNOTATOR", &s); err != nil {
		return s, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return s, nil
}

// Options translates the settings into client options.
func (s Settings) Options() ([]Option, error) {
	caps, err := ParseCapabilities(s.Capabilities)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithEnvironment(s.Environment),
		WithCapabilities(caps),
		WithDebugLogging(s.Debug),
	}
	if s.Timeout > 0 {
		opts = append(opts, WithHTTPTimeout(s.Timeout))
	}
	if s.DevHost != "" {
		opts = append(opts, WithDevHost(s.DevHost))
	}
	if s.Origin != "" {
		opts = append(opts, WithOrigin(s.Origin))
	}
	if s.URLMode != "" {
		m, err := ParseURLMode(s.URLMode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithURLMode(m))
	}
	return opts, nil
}

// NewFromSettings builds a Client from s; extra options are applied last.
func NewFromSettings(s Settings, extra ...Option) (*Client, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	return New(s.BaseURL, append(opts, extra...)...)
}
