//go:build integration
// +build integration

package integration_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vlm-annotator/annotator/client"
)

// TestAnnotationRoundTripE2E exercises the live flow:
//  1. read the configuration
//  2. list images
//  3. save an annotation for a throwaway image name and read it back
//  4. find it in the full annotation list
//
// Run with: go test -tags=integration ./client/integration_test -v
func TestAnnotationRoundTripE2E(t *testing.T) {
	c, err := client.New(backendURL(), client.WithCapabilities(client.CapabilitiesAll))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	cfg, err := c.GetConfig(ctx)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if len(cfg) == 0 {
		t.Fatal("empty configuration")
	}

	if _, err := c.GetImages(ctx); err != nil {
		t.Fatalf("list images: %v", err)
	}

	name := "it-" + uuid.NewString()[:8] + " sample.png"
	ack, err := c.SaveAnnotation(ctx, name, client.Payload{"overall_status": "PASS", "confidence_score": 0.5})
	if err != nil {
		t.Fatalf("save annotation: %v", err)
	}
	if !ack.Success {
		t.Fatalf("save not acknowledged: %+v", ack)
	}

	got, err := c.GetAnnotation(ctx, name)
	if err != nil {
		t.Fatalf("get annotation: %v", err)
	}
	if got["overall_status"] != "PASS" {
		t.Fatalf("unexpected annotation: %v", got)
	}

	all, err := c.GetAllAnnotations(ctx)
	if err != nil {
		t.Fatalf("list annotations: %v", err)
	}
	if len(all.Annotations) == 0 {
		t.Fatal("saved annotation missing from list")
	}
}

// Newer backends dropped /export; the client must say so without a request.
func TestExportGatedE2E(t *testing.T) {
	c, err := client.New(backendURL())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.ExportDataset(context.Background())
	if !errors.Is(err, client.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
