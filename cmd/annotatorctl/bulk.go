package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vlm-annotator/annotator/client"
	"github.com/vlm-annotator/annotator/internal/bulk"
	"github.com/vlm-annotator/annotator/internal/shardqueue"
)

func newImporter(c *client.Client) (*bulk.Importer, error) {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		return nil, err
	}
	return bulk.NewImporter(c, cfg, log.Logger), nil
}

func newImportAnnotationsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import-annotations",
		Short: "Save every <image>.json file of a directory to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "import-annotations", func(ctx context.Context, c *client.Client) (any, error) {
				im, err := newImporter(c)
				if err != nil {
					return nil, err
				}
				return im.ImportDir(ctx, dir)
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory of annotation files (required)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func newExportAnnotationsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export-annotations",
		Short: "Write every stored annotation to <dir>/<image>.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "export-annotations", func(ctx context.Context, c *client.Client) (any, error) {
				im, err := newImporter(c)
				if err != nil {
					return nil, err
				}
				return im.ExportDir(ctx, dir)
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (required)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
