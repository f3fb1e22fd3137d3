package mcp

import (
	"context"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ListTools lists the tools of s over an in-process transport, the same
// way a host sees them.
func ListTools(ctx context.Context, s *server.MCPServer) ([]mcpgo.Tool, error) {
	tr := transport.NewInProcessTransport(s)
	if err := tr.Start(ctx); err != nil {
		return nil, err
	}
	defer tr.Close()

	c := mcpclient.NewClient(tr)
	if _, err := c.Initialize(ctx, mcpgo.InitializeRequest{
		Params: mcpgo.InitializeParams{
			ProtocolVersion: mcpgo.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcpgo.Implementation{Name: "annotatorctl", Version: "0.1.0"},
		},
	}); err != nil {
		return nil, err
	}
	res, err := c.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	return res.Tools, nil
}
