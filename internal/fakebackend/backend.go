// Package fakebackend is an in-memory stand-in for the annotation backend's
// HTTP API, used by tests of the client, the bulk importer, the CLI and the
// MCP server.
package fakebackend

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// Request is one recorded call.
type Request struct {
	Method string
	URI    string // escaped request URI as received
	Body   []byte
}

type failure struct {
	method string
	prefix string
	status int
	left   int
}

type image struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Annotated bool   `json:"annotated"`
	Size      int64  `json:"size"`
}

// Backend serves the /api routes from memory. The zero value is not usable;
// call New.
type Backend struct {
	// Legacy switches to the earliest route set: /export is served and
	// deletion, thumbnails and summaries answer 404.
	Legacy bool

	mu          sync.Mutex
	router      *mux.Router
	config      map[string]any
	folders     map[string]string
	images      map[string]image
	annotations map[string]map[string]any
	failures    []*failure
	requests    []Request
}

// New returns a backend with an empty image folder.
func New() *Backend {
	b := &Backend{
		config:      map[string]any{"images_dir": "/data/images", "annotations_dir": "/data/annotations", "json_indent": float64(2)},
		folders:     map[string]string{"images": "/data/images", "annotations": "/data/annotations"},
		images:      map[string]image{},
		annotations: map[string]map[string]any{},
	}
	r := mux.NewRouter().UseEncodedPath().SkipClean(true)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/config", b.getConfig).Methods(http.MethodGet)
	api.HandleFunc("/config", b.updateConfig).Methods(http.MethodPost)
	api.HandleFunc("/select-folder", b.selectFolder).Methods(http.MethodPost)
	api.HandleFunc("/open-folder", b.openFolder).Methods(http.MethodPost)
	api.HandleFunc("/images", b.listImages).Methods(http.MethodGet)
	api.HandleFunc("/images/{name}", b.serveImage).Methods(http.MethodGet)
	api.HandleFunc("/images/{name}", b.deleteImage).Methods(http.MethodDelete)
	api.HandleFunc("/thumbnails/{name}", b.serveThumbnail).Methods(http.MethodGet)
	api.HandleFunc("/annotations", b.listAnnotations).Methods(http.MethodGet)
	api.HandleFunc("/annotations/{name}/summary", b.annotationSummary).Methods(http.MethodGet)
	api.HandleFunc("/annotations/{name}", b.getAnnotation).Methods(http.MethodGet)
	api.HandleFunc("/annotations/{name}", b.saveAnnotation).Methods(http.MethodPost)
	api.HandleFunc("/export", b.export).Methods(http.MethodGet)
	b.router = r
	return b
}

// ServeHTTP records the request, applies injected failures, then routes.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	b.mu.Lock()
	b.requests = append(b.requests, Request{Method: r.Method, URI: r.RequestURI, Body: body})
	status := b.takeFailure(r.Method, r.URL.EscapedPath())
	b.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]any{"error": http.StatusText(status)})
		return
	}
	b.router.ServeHTTP(w, r)
}

// FailNext makes the next times requests whose method matches and whose
// escaped path starts with prefix answer status.
func (b *Backend) FailNext(method, prefix string, status, times int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, &failure{method: method, prefix: prefix, status: status, left: times})
}

func (b *Backend) takeFailure(method, p string) int {
	for _, f := range b.failures {
		if f.left > 0 && f.method == method && strings.HasPrefix(p, f.prefix) {
			f.left--
			return f.status
		}
	}
	return 0
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// AddImage places an image in the images folder.
func (b *Backend) AddImage(name string, size int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.images[name] = image{Name: name, Path: path.Join(b.folders["images"], name), Size: size}
}

// SetAnnotation stores data for imageName as if it had been saved.
func (b *Backend) SetAnnotation(imageName string, data map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.annotations[imageName] = data
}

// Annotation returns the stored annotation of imageName.
func (b *Backend) Annotation(imageName string) (map[string]any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.annotations[imageName]
	return a, ok
}

// HasImage reports whether name is still in the images folder.
func (b *Backend) HasImage(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.images[name]
	return ok
}

// ------------------------------ handlers ------------------------------

func (b *Backend) getConfig(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"app_config":     b.config,
		"status_options": []string{"PASS", "FAIL"},
		"gui_available":  false,
	})
}

func (b *Backend) updateConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range patch {
		b.config[k] = v
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Configuration updated", "config": b.config})
}

func (b *Backend) selectFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FolderType string `json:"folder_type"`
		FolderPath string `json:"folder_path"`
		UseDialog  bool   `json:"use_dialog"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.FolderPath == "" {
		// no GUI here, so a dialog can never be shown
		writeJSON(w, http.StatusOK, map[string]any{
			"success":          false,
			"message":          "GUI unavailable, enter the folder path manually",
			"gui_available":    false,
			"use_manual_input": true,
		})
		return
	}
	b.mu.Lock()
	b.folders[req.FolderType] = req.FolderPath
	b.config[req.FolderType+"_dir"] = req.FolderPath
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"folder_path":   req.FolderPath,
		"folder_type":   req.FolderType,
		"method":        "manual",
		"gui_available": false,
	})
}

func (b *Backend) openFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FolderType string `json:"folder_type"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	dir, ok := b.folders[req.FolderType]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown folder type"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Opened " + dir})
}

func (b *Backend) listImages(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := make([]image, 0, len(b.images))
	for _, img := range b.images {
		_, img.Annotated = b.annotations[img.Name]
		out = append(out, img)
	}
	b.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, map[string]any{"images": out})
}

func (b *Backend) serveImage(w http.ResponseWriter, r *http.Request) {
	name, ok := b.lookupImage(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write([]byte("PNG:" + name))
}

func (b *Backend) serveThumbnail(w http.ResponseWriter, r *http.Request) {
	if b.Legacy {
		http.NotFound(w, r)
		return
	}
	name, ok := b.lookupImage(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write([]byte("THUMB:" + name))
}

func (b *Backend) deleteImage(w http.ResponseWriter, r *http.Request) {
	if b.Legacy {
		http.NotFound(w, r)
		return
	}
	name, ok := b.lookupImage(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	delete(b.images, name)
	delete(b.annotations, name)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Deleted " + name})
}

func (b *Backend) lookupImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad file name"})
		return "", false
	}
	b.mu.Lock()
	_, ok := b.images[name]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "image not found"})
		return "", false
	}
	return name, true
}

func (b *Backend) listAnnotations(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := make([]map[string]any, 0, len(b.annotations))
	for name, a := range b.annotations {
		out = append(out, map[string]any{"image_name": name, "annotation": a})
	}
	b.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i]["image_name"].(string) < out[j]["image_name"].(string) })
	writeJSON(w, http.StatusOK, map[string]any{"annotations": out})
}

func (b *Backend) getAnnotation(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad image name"})
		return
	}
	b.mu.Lock()
	a, ok := b.annotations[name]
	b.mu.Unlock()
	if !ok {
		// unannotated images get an empty skeleton
		a = map[string]any{"image_name": name, "image_path": "images/" + name}
	}
	writeJSON(w, http.StatusOK, a)
}

func (b *Backend) annotationSummary(w http.ResponseWriter, r *http.Request) {
	if b.Legacy {
		http.NotFound(w, r)
		return
	}
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad image name"})
		return
	}
	b.mu.Lock()
	a, ok := b.annotations[name]
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"image_name":     name,
		"annotated":      ok,
		"overall_status": a["overall_status"],
		"field_count":    len(a),
	})
}

func (b *Backend) saveAnnotation(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad image name"})
		return
	}
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "annotation must be a JSON object"})
		return
	}
	b.mu.Lock()
	b.annotations[name] = data
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Annotation saved"})
}

func (b *Backend) export(w http.ResponseWriter, r *http.Request) {
	if !b.Legacy {
		http.NotFound(w, r)
		return
	}
	b.mu.Lock()
	items := make([]map[string]any, 0, len(b.annotations))
	for name, a := range b.annotations {
		items = append(items, map[string]any{"image": name, "annotation": a})
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"dataset": items, "count": len(items)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
