package api

import (
	"context"
	"net/http"

	"github.com/vlm-annotator/annotator/client/internal/types"
)

// ExportDataset fetches the export artifact. Only early backends serve it.
func ExportDataset(ctx context.Context, t *Transport) (types.Payload, error) {
	var out types.Payload
	if err := t.do(ctx, "export dataset", http.MethodGet, "/export", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
