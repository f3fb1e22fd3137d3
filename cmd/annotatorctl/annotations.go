package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vlm-annotator/annotator/client"
)

func newGetAnnotationCmd() *cobra.Command {
	var image string

	cmd := &cobra.Command{
		Use:   "get-annotation",
		Short: "Print the annotation of an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "get-annotation", func(ctx context.Context, c *client.Client) (any, error) {
				return c.GetAnnotation(ctx, image)
			})
		},
	}

	cmd.Flags().StringVar(&image, "image", "", "Image name (required)")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newAnnotationSummaryCmd() *cobra.Command {
	var image string

	cmd := &cobra.Command{
		Use:   "annotation-summary",
		Short: "Print the summary view of an image's annotation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "annotation-summary", func(ctx context.Context, c *client.Client) (any, error) {
				return c.GetAnnotationSummary(ctx, image)
			})
		},
	}

	cmd.Flags().StringVar(&image, "image", "", "Image name (required)")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newSaveAnnotationCmd() *cobra.Command {
	var image, file string

	cmd := &cobra.Command{
		Use:   "save-annotation",
		Short: "Replace an image's annotation with a JSON object",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readPayload(cmd, file)
			if err != nil {
				return err
			}
			return runOp(cmd, "save-annotation", func(ctx context.Context, c *client.Client) (any, error) {
				return c.SaveAnnotation(ctx, image, data)
			})
		},
	}

	cmd.Flags().StringVar(&image, "image", "", "Image name (required)")
	cmd.Flags().StringVar(&file, "file", "-", "JSON file holding the annotation (\"-\" for stdin)")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newListAnnotationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-annotations",
		Short: "Print every stored annotation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "list-annotations", func(ctx context.Context, c *client.Client) (any, error) {
				return c.GetAllAnnotations(ctx)
			})
		},
	}
}
