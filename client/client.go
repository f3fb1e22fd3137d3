package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vlm-annotator/annotator/client/internal/api"
	"github.com/vlm-annotator/annotator/client/internal/types"
)

// DefaultTimeout bounds every request unless WithHTTPTimeout says otherwise.
const DefaultTimeout = 30 * time.Second

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is the facade over the annotation backend. Construct one per
// process and share it; it holds no mutable state after New returns, so
// concurrent calls need no coordination.
type Client struct {
	apiPath string // root prefix of every endpoint, e.g. "/api"
	host    string // scheme+host from baseURL or WithOrigin
	devHost string
	env     string
	mode    URLMode
	caps    Capability

	timeout    time.Duration
	debug      bool
	httpClient *http.Client
	logger     zerolog.Logger

	t *api.Transport
}

// New constructs a Client. baseURL is either absolute
// ("http://localhost:5000/api") or root-relative ("/api").
// Additional options can be provided via functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}

	c := &Client{
		apiPath: strings.TrimRight(u.Path, "/"),
		devHost: DefaultDevHost,
		env:     EnvProduction,
		caps:    CapabilitiesCurrent,
		timeout: DefaultTimeout,
		logger:  log.Logger,
	}
	switch {
	case u.IsAbs():
		if u.Host == "" {
			return nil, fmt.Errorf("baseURL %q has no host", baseURL)
		}
		c.host = u.Scheme + "://" + u.Host
	case strings.HasPrefix(u.Path, "/"):
	default:
		return nil, fmt.Errorf("baseURL %q must be absolute or start with /", baseURL)
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.mode == 0 {
		if u.IsAbs() {
			c.mode = URLModeFixedHost
		} else {
			c.mode = URLModeRelative
		}
	}
	if c.mode == URLModeFixedHost && c.host == "" {
		return nil, fmt.Errorf("url mode %s needs an absolute baseURL or WithOrigin", c.mode)
	}

	c.t = c.newTransport()
	return c, nil
}

// newTransport assembles the resty client: base URL, JSON content type,
// timeout and (optionally) the debug round tripper.
func (c *Client) newTransport() *api.Transport {
	rc := resty.New()
	if c.httpClient != nil {
		rc = resty.NewWithClient(c.httpClient)
	}
	rc.SetTimeout(c.timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if c.debug {
		rc.SetTransport(&debugTransport{base: rc.GetClient().Transport})
	}

	t := &api.Transport{
		HTTP:    rc,
		Log:     c.logger.With().Str("component", "annotator-client").Logger(),
		Observe: observeRequest,
	}
	if origin := c.requestOrigin(); origin != "" {
		rc.SetBaseURL(origin + c.apiPath)
	} else {
		t.Unavailable = ErrNoOrigin
	}
	return t
}

// Mode returns the URL mode in effect.
func (c *Client) Mode() URLMode { return c.mode }

// Capabilities returns the endpoint set the client was configured for.
func (c *Client) Capabilities() Capability { return c.caps }

// Close releases idle connections. Safe to call multiple times.
func (c *Client) Close() error {
	c.t.HTTP.GetClient().CloseIdleConnections()
	return nil
}

// require rejects operations the configured backend does not serve.
func (c *Client) require(op, method, path string, cap Capability) error {
	if c.caps.Has(cap) {
		return nil
	}
	return c.t.Reject(op, method, path, fmt.Errorf("%w: %s", ErrUnsupported, op))
}

// --------------------------------------------------------------------
// Configuration operations
// --------------------------------------------------------------------

// GetConfig returns the current backend configuration.
func (c *Client) GetConfig(ctx context.Context) (Payload, error) {
	return api.GetConfig(ctx, c.t)
}

// UpdateConfig sends cfg unchanged; the backend decides between full and
// partial replacement.
func (c *Client) UpdateConfig(ctx context.Context, cfg Payload) (Payload, error) {
	return api.UpdateConfig(ctx, c.t, cfg)
}

// --------------------------------------------------------------------
// Folder operations
// --------------------------------------------------------------------

// SelectFolderOption adjusts a folder selection request.
type SelectFolderOption func(*types.SelectFolderRequest)

// WithFolderPath supplies the path directly instead of relying on a dialog.
func WithFolderPath(path string) SelectFolderOption {
	return func(r *types.SelectFolderRequest) { r.FolderPath = path }
}

// WithDialog controls whether the backend may open a native folder dialog.
func WithDialog(use bool) SelectFolderOption {
	return func(r *types.SelectFolderRequest) { r.UseDialog = use }
}

// SelectFolder points folderType ("images", "annotations") at a directory.
// Without options the body is {folder_type, folder_path: "", use_dialog: true}.
func (c *Client) SelectFolder(ctx context.Context, folderType string, opts ...SelectFolderOption) (*FolderSelection, error) {
	req := types.SelectFolderRequest{FolderType: folderType, UseDialog: true}
	for _, opt := range opts {
		opt(&req)
	}
	return api.SelectFolder(ctx, c.t, req)
}

// OpenFolder asks the backend host to reveal folderType in its file manager.
func (c *Client) OpenFolder(ctx context.Context, folderType string) (*Ack, error) {
	return api.OpenFolder(ctx, c.t, types.OpenFolderRequest{FolderType: folderType})
}

// --------------------------------------------------------------------
// Image operations
// --------------------------------------------------------------------

// GetImages lists the images of the current images folder.
func (c *Client) GetImages(ctx context.Context) (*ImageList, error) {
	return api.ListImages(ctx, c.t)
}

// DeleteImage removes filename from the images folder.
func (c *Client) DeleteImage(ctx context.Context, filename string) (*Ack, error) {
	if err := c.require("delete image", http.MethodDelete, types.ResourcePath("/images", filename), CapDeleteImage); err != nil {
		return nil, err
	}
	return api.DeleteImage(ctx, c.t, filename)
}

// --------------------------------------------------------------------
// Annotation operations
// --------------------------------------------------------------------

// GetAnnotation returns the annotation of imageName.
func (c *Client) GetAnnotation(ctx context.Context, imageName string) (Payload, error) {
	return api.GetAnnotation(ctx, c.t, imageName)
}

// GetAnnotationSummary returns the summary view of imageName's annotation.
func (c *Client) GetAnnotationSummary(ctx context.Context, imageName string) (Payload, error) {
	if err := c.require("get annotation summary", http.MethodGet, types.ResourcePath("/annotations", imageName, "summary"), CapAnnotationSummary); err != nil {
		return nil, err
	}
	return api.GetAnnotationSummary(ctx, c.t, imageName)
}

// SaveAnnotation replaces imageName's annotation with data. Reads issued
// concurrently are not ordered against it; callers wanting read-after-write
// must wait for SaveAnnotation to return first.
func (c *Client) SaveAnnotation(ctx context.Context, imageName string, data Payload) (*Ack, error) {
	return api.SaveAnnotation(ctx, c.t, imageName, data)
}

// GetAllAnnotations returns every stored annotation.
func (c *Client) GetAllAnnotations(ctx context.Context) (*AnnotationList, error) {
	return api.ListAnnotations(ctx, c.t)
}

// ExportDataset fetches the dataset export (legacy backends only).
func (c *Client) ExportDataset(ctx context.Context) (Payload, error) {
	if err := c.require("export dataset", http.MethodGet, "/export", CapExport); err != nil {
		return nil, err
	}
	return api.ExportDataset(ctx, c.t)
}
