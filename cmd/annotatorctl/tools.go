package main

import (
	"github.com/spf13/cobra"

	"github.com/vlm-annotator/annotator/mcp"
)

func newGetToolsSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-tools-schema",
		Short: "Print the MCP tools exposed by annotator-mcp-server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			s, err := mcp.NewServer(c, "annotator-mcp-server", "schema")
			if err != nil {
				return err
			}
			tools, err := mcp.ListTools(cmd.Context(), s)
			if err != nil {
				return err
			}
			return printJSON(cmd, tools)
		},
	}
}
