package client

import (
	"fmt"
	"strings"

	"github.com/vlm-annotator/annotator/client/internal/types"
)

// URLMode decides how generated resource URLs (ImageURL, ThumbnailURL) are
// prefixed, and where requests are sent.
type URLMode int

const (
	// URLModeRelative yields root-relative URLs ("/api/images/x"); a reverse
	// proxy resolves the host. Requests go to the origin set by WithOrigin.
	URLModeRelative URLMode = iota + 1
	// URLModeAbsoluteDev yields absolute dev-host URLs in development and
	// root-relative URLs everywhere else.
	URLModeAbsoluteDev
	// URLModeFixedHost always yields absolute URLs against the configured host.
	URLModeFixedHost
)

// Environments recognised by URLModeAbsoluteDev.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultDevHost is the backend address used in development.
const DefaultDevHost = "http://localhost:5000"

func (m URLMode) String() string {
	switch m {
	case URLModeRelative:
		return "relative"
	case URLModeAbsoluteDev:
		return "absolute-dev"
	case URLModeFixedHost:
		return "fixed-host"
	default:
		return fmt.Sprintf("URLMode(%d)", int(m))
	}
}

// ParseURLMode accepts the names produced by URLMode.String.
func ParseURLMode(s string) (URLMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relative":
		return URLModeRelative, nil
	case "absolute-dev", "absolute_dev", "dev":
		return URLModeAbsoluteDev, nil
	case "fixed-host", "fixed_host", "fixed":
		return URLModeFixedHost, nil
	default:
		return 0, fmt.Errorf("unknown url mode %q", s)
	}
}

// resourcePrefix returns the scheme+host that prefixes generated resource
// URLs, or "" for root-relative URLs.
func (c *Client) resourcePrefix() string {
	switch c.mode {
	case URLModeFixedHost:
		return c.host
	case URLModeAbsoluteDev:
		if c.env == EnvDevelopment {
			return c.devHost
		}
	}
	return ""
}

// requestOrigin returns the scheme+host requests are sent to, or "" when
// none can be derived.
func (c *Client) requestOrigin() string {
	if c.mode == URLModeAbsoluteDev && c.env == EnvDevelopment {
		return c.devHost
	}
	return c.host
}

// ImageURL builds a displayable URL for an image. It performs no I/O.
func (c *Client) ImageURL(filename string) string {
	return c.resourcePrefix() + c.apiPath + types.ResourcePath("/images", filename)
}

// ThumbnailURL builds a displayable thumbnail URL. Backends without
// thumbnail support get the full image URL instead.
func (c *Client) ThumbnailURL(filename string) string {
	if !c.caps.Has(CapThumbnails) {
		return c.ImageURL(filename)
	}
	return c.resourcePrefix() + c.apiPath + types.ResourcePath("/thumbnails", filename)
}
