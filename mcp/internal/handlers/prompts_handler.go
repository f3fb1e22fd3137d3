package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vlm-annotator/annotator/client/prompts"
)

// PromptsHandler exposes the get_default_prompt tool.
// It returns the embedded defect-classification prompt and its schema.
type PromptsHandler struct{}

func NewPromptsHandler() *PromptsHandler { return &PromptsHandler{} }

// RegisterTools registers the get_default_prompt tool on the MCP server.
func (ph *PromptsHandler) RegisterTools(s *server.MCPServer) error {
	tool := mcp.NewTool("get_default_prompt",
		mcp.WithDescription("Return the built-in prompt template and json_fields schema; pass as_config to get an update_config payload"),
		mcp.WithBoolean("as_config", mcp.Description("Shape the result as an update_config payload")),
	)
	s.AddTool(tool, ph.handleGetPrompt)
	return nil
}

func (ph *PromptsHandler) handleGetPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := prompts.LoadDefaults()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get_default_prompt failed: %v", err)), nil
	}
	if asConfig, _ := req.GetArguments()["as_config"].(bool); asConfig {
		return jsonResult(d.ConfigPatch())
	}
	return jsonResult(d)
}
