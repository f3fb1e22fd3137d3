package api

import (
	"context"
	"net/http"

	"github.com/vlm-annotator/annotator/client/internal/types"
)

// SelectFolder asks the backend to point a folder type at a new directory,
// either through a native dialog or the supplied path.
func SelectFolder(ctx context.Context, t *Transport, req types.SelectFolderRequest) (*types.FolderSelection, error) {
	var sel types.FolderSelection
	if err := t.do(ctx, "select folder", http.MethodPost, "/select-folder", req, &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

// OpenFolder asks the backend host to reveal a folder in its file manager.
func OpenFolder(ctx context.Context, t *Transport, req types.OpenFolderRequest) (*types.Ack, error) {
	var ack types.Ack
	if err := t.do(ctx, "open folder", http.MethodPost, "/open-folder", req, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
