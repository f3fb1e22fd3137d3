package api

import (
	"context"
	"net/http"

	"github.com/vlm-annotator/annotator/client/internal/types"
)

// GetAnnotation returns the stored (or backend-generated default) annotation
// of one image.
func GetAnnotation(ctx context.Context, t *Transport, imageName string) (types.Payload, error) {
	var a types.Payload
	path := types.ResourcePath("/annotations", imageName)
	if err := t.do(ctx, "get annotation", http.MethodGet, path, nil, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetAnnotationSummary returns the backend's summary view of one annotation.
func GetAnnotationSummary(ctx context.Context, t *Transport, imageName string) (types.Payload, error) {
	var s types.Payload
	path := types.ResourcePath("/annotations", imageName, "summary")
	if err := t.do(ctx, "get annotation summary", http.MethodGet, path, nil, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveAnnotation replaces the annotation of one image with data.
func SaveAnnotation(ctx context.Context, t *Transport, imageName string, data types.Payload) (*types.Ack, error) {
	var ack types.Ack
	path := types.ResourcePath("/annotations", imageName)
	if err := t.do(ctx, "save annotation", http.MethodPost, path, data, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ListAnnotations returns every stored annotation.
func ListAnnotations(ctx context.Context, t *Transport) (*types.AnnotationList, error) {
	var list types.AnnotationList
	if err := t.do(ctx, "get all annotations", http.MethodGet, "/annotations", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
