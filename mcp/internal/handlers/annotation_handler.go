package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/vlm-annotator/annotator/client"
)

// AnnotationHandler exposes the annotation read and write tools.
type AnnotationHandler struct {
	client *client.Client
}

func NewAnnotationHandler(c *client.Client) *AnnotationHandler {
	return &AnnotationHandler{client: c}
}

func (ah *AnnotationHandler) RegisterTools(s *server.MCPServer) error {
	get := mcp.NewTool("get_annotation",
		mcp.WithDescription("Return the annotation of an image; unannotated images get the backend's empty skeleton"),
		mcp.WithString("image_name", mcp.Required(), mcp.Description("Image file name")),
	)
	summary := mcp.NewTool("get_annotation_summary",
		mcp.WithDescription("Return the summary view of an image's annotation"),
		mcp.WithString("image_name", mcp.Required(), mcp.Description("Image file name")),
	)
	save := mcp.NewTool("save_annotation",
		mcp.WithDescription("Replace an image's annotation. The object should follow the json_fields schema from get_config"),
		mcp.WithString("image_name", mcp.Required(), mcp.Description("Image file name")),
		mcp.WithObject("annotation", mcp.Required(), mcp.Description("Annotation JSON object")),
	)
	list := mcp.NewTool("list_annotations",
		mcp.WithDescription("Return every stored annotation with its image name"),
	)
	s.AddTool(get, ah.handleGetAnnotation)
	s.AddTool(summary, ah.handleGetSummary)
	s.AddTool(save, ah.handleSaveAnnotation)
	s.AddTool(list, ah.handleListAnnotations)
	return nil
}

func (ah *AnnotationHandler) handleGetAnnotation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("image_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("image_name", name).Msg("get_annotation invoked")
	start := time.Now()
	a, err := ah.client.GetAnnotation(ctx, name)
	return finish("get_annotation", start, a, err)
}

func (ah *AnnotationHandler) handleGetSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("image_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start := time.Now()
	a, err := ah.client.GetAnnotationSummary(ctx, name)
	return finish("get_annotation_summary", start, a, err)
}

func (ah *AnnotationHandler) handleSaveAnnotation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("image_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := objectArg(req, "annotation")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Str("image_name", name).Int("fields", len(data)).Msg("save_annotation invoked")
	start := time.Now()
	ack, err := ah.client.SaveAnnotation(ctx, name, data)
	return finish("save_annotation", start, ack, err)
}

func (ah *AnnotationHandler) handleListAnnotations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	list, err := ah.client.GetAllAnnotations(ctx)
	return finish("list_annotations", start, list, err)
}
