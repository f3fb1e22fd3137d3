package api

import (
	"context"
	"net/http"

	"github.com/vlm-annotator/annotator/client/internal/types"
)

// GetConfig returns the backend configuration exactly as served.
func GetConfig(ctx context.Context, t *Transport) (types.Payload, error) {
	var cfg types.Payload
	if err := t.do(ctx, "get config", http.MethodGet, "/config", nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateConfig posts cfg verbatim. The merge semantics (full or partial
// replace) belong to the backend.
func UpdateConfig(ctx context.Context, t *Transport, cfg types.Payload) (types.Payload, error) {
	var out types.Payload
	if err := t.do(ctx, "update config", http.MethodPost, "/config", cfg, &out); err != nil {
		return nil, err
	}
	return out, nil
}
