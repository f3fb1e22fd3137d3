package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/vlm-annotator/annotator/client"
)

// FolderHandler exposes select_folder and open_folder.
type FolderHandler struct {
	client *client.Client
}

func NewFolderHandler(c *client.Client) *FolderHandler { return &FolderHandler{client: c} }

func (fh *FolderHandler) RegisterTools(s *server.MCPServer) error {
	sel := mcp.NewTool("select_folder",
		mcp.WithDescription("Point the images or annotations folder at a directory on the backend host. Without folder_path the backend may open a native dialog; if it reports use_manual_input, call again with folder_path"),
		mcp.WithString("folder_type", mcp.Required(), mcp.Description("images or annotations")),
		mcp.WithString("folder_path", mcp.Description("Absolute directory on the backend host")),
		mcp.WithBoolean("use_dialog", mcp.Description("Allow a native folder dialog (default true)")),
	)
	open := mcp.NewTool("open_folder",
		mcp.WithDescription("Reveal the images or annotations folder in the backend host's file manager"),
		mcp.WithString("folder_type", mcp.Required(), mcp.Description("images or annotations")),
	)
	s.AddTool(sel, fh.handleSelectFolder)
	s.AddTool(open, fh.handleOpenFolder)
	return nil
}

func (fh *FolderHandler) handleSelectFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folderType, err := req.RequireString("folder_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := req.GetArguments()
	var opts []client.SelectFolderOption
	if p, ok := args["folder_path"].(string); ok && p != "" {
		opts = append(opts, client.WithFolderPath(p))
	}
	if d, ok := args["use_dialog"].(bool); ok {
		opts = append(opts, client.WithDialog(d))
	}

	log.Debug().Str("folder_type", folderType).Msg("select_folder invoked")
	start := time.Now()
	sel, err := fh.client.SelectFolder(ctx, folderType, opts...)
	return finish("select_folder", start, sel, err)
}

func (fh *FolderHandler) handleOpenFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folderType, err := req.RequireString("folder_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("folder_type", folderType).Msg("open_folder invoked")
	start := time.Now()
	ack, err := fh.client.OpenFolder(ctx, folderType)
	return finish("open_folder", start, ack, err)
}
