package fakebackend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlm-annotator/annotator/client"
	"github.com/vlm-annotator/annotator/internal/fakebackend"
)

func setup(t *testing.T, legacy bool, opts ...client.Option) (*fakebackend.Backend, *client.Client) {
	t.Helper()
	b := fakebackend.New()
	b.Legacy = legacy
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	return b, c
}

func TestFacadeAgainstBackend(t *testing.T) {
	b, c := setup(t, false)
	ctx := context.Background()
	b.AddImage("a b/c#d.png", 10)
	b.AddImage("plain.png", 20)

	list, err := c.GetImages(ctx)
	require.NoError(t, err)
	require.Len(t, list.Images, 2)
	assert.Equal(t, "a b/c#d.png", list.Images[0].Name)

	ack, err := c.SaveAnnotation(ctx, "a b/c#d.png", client.Payload{"overall_status": "FAIL"})
	require.NoError(t, err)
	assert.True(t, ack.Success)

	got, err := c.GetAnnotation(ctx, "a b/c#d.png")
	require.NoError(t, err)
	assert.Equal(t, "FAIL", got["overall_status"])

	sum, err := c.GetAnnotationSummary(ctx, "a b/c#d.png")
	require.NoError(t, err)
	assert.Equal(t, true, sum["annotated"])

	all, err := c.GetAllAnnotations(ctx)
	require.NoError(t, err)
	require.Len(t, all.Annotations, 1)

	_, err = c.DeleteImage(ctx, "a b/c#d.png")
	require.NoError(t, err)
	assert.False(t, b.HasImage("a b/c#d.png"))

	_, err = c.DeleteImage(ctx, "a b/c#d.png")
	assert.ErrorIs(t, err, client.ErrNotFound)

	reqs := b.Requests()
	assert.Equal(t, "/api/annotations/a%20b%2Fc%23d.png", reqs[1].URI)
}

func TestResourceURLsResolve(t *testing.T) {
	b, c := setup(t, false)
	b.AddImage("x y.png", 1)

	for _, u := range []string{c.ImageURL("x y.png"), c.ThumbnailURL("x y.png")} {
		resp, err := http.Get(u)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, u)
	}
}

func TestFolderAndConfigRoutes(t *testing.T) {
	_, c := setup(t, false)
	ctx := context.Background()

	sel, err := c.SelectFolder(ctx, client.FolderImages)
	require.NoError(t, err)
	assert.False(t, sel.Success)
	assert.True(t, sel.UseManualInput)

	sel, err = c.SelectFolder(ctx, client.FolderImages, client.WithFolderPath("/srv/imgs"), client.WithDialog(false))
	require.NoError(t, err)
	assert.True(t, sel.Success)

	cfg, err := c.GetConfig(ctx)
	require.NoError(t, err)
	app := cfg["app_config"].(map[string]any)
	assert.Equal(t, "/srv/imgs", app["images_dir"])

	_, err = c.UpdateConfig(ctx, client.Payload{"auto_save": false})
	require.NoError(t, err)

	ack, err := c.OpenFolder(ctx, client.FolderImages)
	require.NoError(t, err)
	assert.Contains(t, ack.Message, "/srv/imgs")
}

func TestLegacyExport(t *testing.T) {
	b, c := setup(t, true, client.WithCapabilities(client.CapabilitiesLegacy))
	b.SetAnnotation("a.png", map[string]any{"overall_status": "PASS"})

	out, err := c.ExportDataset(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, out["count"])

	// thumbnails fall back to the full image on legacy backends
	assert.Equal(t, c.ImageURL("a.png"), c.ThumbnailURL("a.png"))
}

func TestFailNext(t *testing.T) {
	b, c := setup(t, false)
	b.FailNext(http.MethodGet, "/api/config", http.StatusServiceUnavailable, 1)

	_, err := c.GetConfig(context.Background())
	var te *client.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)

	_, err = c.GetConfig(context.Background())
	assert.NoError(t, err)
}
