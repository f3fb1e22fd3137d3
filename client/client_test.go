package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGetConfig_ReturnsBodyUnwrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/config", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"a":1}`))
	})
	cfg, err := c.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Payload{"a": float64(1)}, cfg)
}

func TestUpdateConfig_SendsPayloadUnchanged(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"model":{"name":"qwen"},"extra":[1,2]}`, string(body))
		_, _ = w.Write([]byte(`{"success":true,"message":"Configuration updated"}`))
	})
	out, err := c.UpdateConfig(context.Background(), Payload{"model": map[string]any{"name": "qwen"}, "extra": []int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, true, out["success"])
}

func TestSelectFolder_DefaultBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/select-folder", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"folder_type":"images","folder_path":"","use_dialog":true}`, string(body))
		_, _ = w.Write([]byte(`{"success":true,"folder_path":"/data/img","folder_type":"images","method":"dialog","gui_available":true}`))
	})
	sel, err := c.SelectFolder(context.Background(), FolderImages)
	require.NoError(t, err)
	assert.True(t, sel.Success)
	assert.Equal(t, "/data/img", sel.FolderPath)
	assert.Equal(t, "dialog", sel.Method)
}

func TestSelectFolder_ManualPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"folder_type":"annotations","folder_path":"/srv/ann","use_dialog":false}`, string(body))
		_, _ = w.Write([]byte(`{"success":true,"folder_path":"/srv/ann","folder_type":"annotations"}`))
	})
	_, err := c.SelectFolder(context.Background(), FolderAnnotations, WithFolderPath("/srv/ann"), WithDialog(false))
	require.NoError(t, err)
}

func TestDeleteImage_EncodesFilename(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/images/foo%20bar.png", r.RequestURI)
		_, _ = w.Write([]byte(`{"success":true,"message":"deleted"}`))
	})
	ack, err := c.DeleteImage(context.Background(), "foo bar.png")
	require.NoError(t, err)
	assert.True(t, ack.Success)
}

func TestServerError_IsLoggedAndPropagated(t *testing.T) {
	var buf bytes.Buffer
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}, WithLogger(zerolog.New(&buf)))

	_, err := c.GetImages(context.Background())
	require.Error(t, err)
	// the log entry exists by the time the caller sees the error
	assert.Contains(t, buf.String(), "API error")
	assert.Contains(t, buf.String(), `"status":500`)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, `{"error":"boom"}`, te.Body)
	assert.Equal(t, Recoverable, te.Category())
}

func TestNotFound_MatchesSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.GetAnnotation(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsIrrecoverable(err))
}

func TestTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithHTTPTimeout(50*time.Millisecond))

	_, err := c.GetConfig(context.Background())
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "expected timeout, got %v", err)
}

func TestCapabilityGate_NoNetwork(t *testing.T) {
	var hits atomic.Int32
	var buf bytes.Buffer
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, WithCapabilities(CapabilitiesLegacy), WithLogger(zerolog.New(&buf)))

	_, err := c.DeleteImage(context.Background(), "a.png")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = c.GetAnnotationSummary(context.Background(), "a.png")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Zero(t, hits.Load())
	assert.Contains(t, buf.String(), "API error")

	current := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })
	_, err = current.ExportDataset(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Zero(t, hits.Load())
}

func TestExportDataset_Legacy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export", r.URL.Path)
		_, _ = w.Write([]byte(`{"dataset":[{"image":"a.png"}]}`))
	}, WithCapabilities(CapabilitiesLegacy))
	out, err := c.ExportDataset(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "dataset")
}

func TestRelativeModeWithoutOrigin(t *testing.T) {
	c, err := New("/api")
	require.NoError(t, err)
	assert.Equal(t, "/api/images/a.png", c.ImageURL("a.png"))
	_, err = c.GetConfig(context.Background())
	assert.ErrorIs(t, err, ErrNoOrigin)
}

func TestRelativeModeWithOrigin_SendsToOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/images", r.URL.Path)
		_, _ = w.Write([]byte(`{"images":[{"name":"a.png","path":"/d/a.png","annotated":true}]}`))
	}))
	defer srv.Close()

	c, err := New("/api", WithOrigin(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, URLModeRelative, c.Mode())
	list, err := c.GetImages(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Images, 1)
	assert.True(t, list.Images[0].Annotated)
	assert.Equal(t, "/api/images/a.png", c.ImageURL(list.Images[0].Name))
}

func TestConcurrentReadAndWrite_NotSerialized(t *testing.T) {
	saved := make(chan struct{})
	var once sync.Once
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			once.Do(func() { close(saved) })
			_, _ = w.Write([]byte(`{"success":true}`))
		case http.MethodGet:
			// hold the read until the write has arrived
			select {
			case <-saved:
			case <-time.After(5 * time.Second):
				w.WriteHeader(http.StatusGatewayTimeout)
				return
			}
			_, _ = w.Write([]byte(`{"label":"cat"}`))
		}
	})

	var wg sync.WaitGroup
	var getErr, saveErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, getErr = c.GetAnnotation(context.Background(), "x.png")
	}()
	go func() {
		defer wg.Done()
		_, saveErr = c.SaveAnnotation(context.Background(), "x.png", Payload{"label": "cat"})
	}()
	wg.Wait()
	require.NoError(t, saveErr)
	require.NoError(t, getErr)
}

func TestGetAllAnnotations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/annotations", r.URL.Path)
		_, _ = w.Write([]byte(`{"annotations":[{"image_name":"a.png","annotation":{"k":"v"}}]}`))
	})
	list, err := c.GetAllAnnotations(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Annotations, 1)
	assert.Equal(t, "a.png", list.Annotations[0].ImageName)
}

func TestOpenFolder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/open-folder", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.True(t, strings.Contains(string(body), `"folder_type":"annotations"`))
		_, _ = w.Write([]byte(`{"success":true,"message":"opened"}`))
	})
	ack, err := c.OpenFolder(context.Background(), FolderAnnotations)
	require.NoError(t, err)
	assert.Equal(t, "opened", ack.Message)
}
