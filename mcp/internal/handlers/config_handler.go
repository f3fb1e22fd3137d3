package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/vlm-annotator/annotator/client"
)

// ConfigHandler exposes get_config and update_config.
type ConfigHandler struct {
	client *client.Client
}

func NewConfigHandler(c *client.Client) *ConfigHandler { return &ConfigHandler{client: c} }

func (ch *ConfigHandler) RegisterTools(s *server.MCPServer) error {
	get := mcp.NewTool("get_config",
		mcp.WithDescription("Return the backend configuration: folders, prompt template, json_fields schema and status options"),
	)
	update := mcp.NewTool("update_config",
		mcp.WithDescription("Send configuration keys to the backend, e.g. prompt_template or json_fields. Keys not sent are left to the backend"),
		mcp.WithObject("config", mcp.Required(), mcp.Description("JSON object of configuration keys")),
	)
	s.AddTool(get, ch.handleGetConfig)
	s.AddTool(update, ch.handleUpdateConfig)
	return nil
}

func (ch *ConfigHandler) handleGetConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("get_config invoked")
	start := time.Now()
	cfg, err := ch.client.GetConfig(ctx)
	return finish("get_config", start, cfg, err)
}

func (ch *ConfigHandler) handleUpdateConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := objectArg(req, "config")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Int("keys", len(cfg)).Msg("update_config invoked")

	start := time.Now()
	out, err := ch.client.UpdateConfig(ctx, cfg)
	return finish("update_config", start, out, err)
}
