package api

import (
	"context"
	"net/http"

	"github.com/vlm-annotator/annotator/client/internal/types"
)

// ListImages returns the image descriptors of the current images folder.
func ListImages(ctx context.Context, t *Transport) (*types.ImageList, error) {
	var list types.ImageList
	if err := t.do(ctx, "get images", http.MethodGet, "/images", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteImage removes an image (and whatever the backend derives from it).
func DeleteImage(ctx context.Context, t *Transport, filename string) (*types.Ack, error) {
	var ack types.Ack
	path := types.ResourcePath("/images", filename)
	if err := t.do(ctx, "delete image", http.MethodDelete, path, nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
