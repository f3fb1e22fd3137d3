package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/vlm-annotator/annotator/client"
)

// ImageHandler exposes the image tools and the legacy dataset export.
type ImageHandler struct {
	client *client.Client
}

func NewImageHandler(c *client.Client) *ImageHandler { return &ImageHandler{client: c} }

func (ih *ImageHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_images",
		mcp.WithDescription("List the images of the current images folder with their annotated flag"),
	)
	imageURL := mcp.NewTool("get_image_url",
		mcp.WithDescription("Return the displayable URL of an image; sends no request"),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Image file name as returned by list_images")),
	)
	thumbURL := mcp.NewTool("get_thumbnail_url",
		mcp.WithDescription("Return the displayable thumbnail URL of an image; sends no request"),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Image file name as returned by list_images")),
	)
	del := mcp.NewTool("delete_image",
		mcp.WithDescription("Delete an image from the images folder"),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Image file name")),
	)
	export := mcp.NewTool("export_dataset",
		mcp.WithDescription("Fetch the dataset export; only legacy backends serve it"),
	)
	s.AddTool(list, ih.handleListImages)
	s.AddTool(imageURL, ih.handleImageURL)
	s.AddTool(thumbURL, ih.handleThumbnailURL)
	s.AddTool(del, ih.handleDeleteImage)
	s.AddTool(export, ih.handleExport)
	return nil
}

func (ih *ImageHandler) handleListImages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("list_images invoked")
	start := time.Now()
	list, err := ih.client.GetImages(ctx)
	return finish("list_images", start, list, err)
}

func (ih *ImageHandler) handleImageURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"filename": name, "url": ih.client.ImageURL(name)})
}

func (ih *ImageHandler) handleThumbnailURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"filename": name, "url": ih.client.ThumbnailURL(name)})
}

func (ih *ImageHandler) handleDeleteImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("filename", name).Msg("delete_image invoked")
	start := time.Now()
	ack, err := ih.client.DeleteImage(ctx, name)
	return finish("delete_image", start, ack, err)
}

func (ih *ImageHandler) handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("export_dataset invoked")
	start := time.Now()
	out, err := ih.client.ExportDataset(ctx)
	return finish("export_dataset", start, out, err)
}
