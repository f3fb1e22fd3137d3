package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vlm-annotator/annotator/client"
)

func newSelectFolderCmd() *cobra.Command {
	var folderType, path string
	var noDialog bool

	cmd := &cobra.Command{
		Use:   "select-folder",
		Short: "Point the images or annotations folder at a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []client.SelectFolderOption{client.WithDialog(!noDialog)}
			if path != "" {
				opts = append(opts, client.WithFolderPath(path))
			}
			return runOp(cmd, "select-folder", func(ctx context.Context, c *client.Client) (any, error) {
				return c.SelectFolder(ctx, folderType, opts...)
			})
		},
	}

	cmd.Flags().StringVar(&folderType, "type", client.FolderImages, "Folder type: images|annotations")
	cmd.Flags().StringVar(&path, "path", "", "Directory on the backend host (skips the dialog when set)")
	cmd.Flags().BoolVar(&noDialog, "no-dialog", false, "Never let the backend open a native folder dialog")
	return cmd
}

func newOpenFolderCmd() *cobra.Command {
	var folderType string

	cmd := &cobra.Command{
		Use:   "open-folder",
		Short: "Reveal a folder in the backend host's file manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "open-folder", func(ctx context.Context, c *client.Client) (any, error) {
				return c.OpenFolder(ctx, folderType)
			})
		},
	}

	cmd.Flags().StringVar(&folderType, "type", "", "Folder type: images|annotations (required)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
