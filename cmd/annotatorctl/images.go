package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vlm-annotator/annotator/client"
)

func newListImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-images",
		Short: "List the images of the current images folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "list-images", func(ctx context.Context, c *client.Client) (any, error) {
				return c.GetImages(ctx)
			})
		},
	}
}

func newImageURLCmd() *cobra.Command {
	var filename string

	cmd := &cobra.Command{
		Use:   "image-url",
		Short: "Print the displayable URL of an image (no request is sent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.ImageURL(filename))
			return err
		},
	}

	cmd.Flags().StringVar(&filename, "filename", "", "Image file name (required)")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func newThumbnailURLCmd() *cobra.Command {
	var filename string

	cmd := &cobra.Command{
		Use:   "thumbnail-url",
		Short: "Print the displayable thumbnail URL of an image (no request is sent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.ThumbnailURL(filename))
			return err
		},
	}

	cmd.Flags().StringVar(&filename, "filename", "", "Image file name (required)")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func newDeleteImageCmd() *cobra.Command {
	var filename string

	cmd := &cobra.Command{
		Use:   "delete-image",
		Short: "Delete an image from the images folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "delete-image", func(ctx context.Context, c *client.Client) (any, error) {
				return c.DeleteImage(ctx, filename)
			})
		},
	}

	cmd.Flags().StringVar(&filename, "filename", "", "Image file name (required)")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Fetch the dataset export (legacy backends only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "export", func(ctx context.Context, c *client.Client) (any, error) {
				return c.ExportDataset(ctx)
			})
		},
	}
}
