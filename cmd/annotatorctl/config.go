package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlm-annotator/annotator/client"
	"github.com/vlm-annotator/annotator/client/prompts"
)

func newGetConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-config",
		Short: "Print the backend configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "get-config", func(ctx context.Context, c *client.Client) (any, error) {
				return c.GetConfig(ctx)
			})
		},
	}
}

func newUpdateConfigCmd() *cobra.Command {
	var file string
	var sets []string

	cmd := &cobra.Command{
		Use:   "update-config",
		Short: "Send a configuration object to the backend",
		Long: "Sends the JSON object read from --file (\"-\" for stdin), overlaid with\n" +
			"every --set key=value. Values that parse as JSON are sent typed,\n" +
			"anything else as a string.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := client.Payload{}
			if file != "" {
				var err error
				if cfg, err = readPayload(cmd, file); err != nil {
					return err
				}
			}
			for _, kv := range sets {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("--set %q: want key=value", kv)
				}
				cfg[k] = parseValue(v)
			}
			if len(cfg) == 0 {
				return fmt.Errorf("nothing to update: pass --file or --set")
			}
			return runOp(cmd, "update-config", func(ctx context.Context, c *client.Client) (any, error) {
				return c.UpdateConfig(ctx, cfg)
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file holding the configuration object")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "key=value pair to send (repeatable)")
	return cmd
}

func newDefaultPromptCmd() *cobra.Command {
	var asConfig bool

	cmd := &cobra.Command{
		Use:   "default-prompt",
		Short: "Print the built-in prompt template and json_fields schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := prompts.LoadDefaults()
			if err != nil {
				return err
			}
			if asConfig {
				return printJSON(cmd, d.ConfigPatch())
			}
			return printJSON(cmd, d)
		},
	}

	cmd.Flags().BoolVar(&asConfig, "as-config", false, "Print as an update-config payload")
	return cmd
}

// readPayload decodes a JSON object from path, or from stdin when path is "-".
func readPayload(cmd *cobra.Command, path string) (client.Payload, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var p client.Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%s: expected a JSON object", path)
	}
	return p, nil
}

func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
