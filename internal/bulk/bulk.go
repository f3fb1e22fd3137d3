// Package bulk moves annotations between a local directory of JSON files
// and the backend, one file per image.
package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/vlm-annotator/annotator/client"
	"github.com/vlm-annotator/annotator/internal/shardqueue"
)

// Store is the slice of the client the importer needs.
type Store interface {
	SaveAnnotation(ctx context.Context, imageName string, data client.Payload) (*client.Ack, error)
	GetAllAnnotations(ctx context.Context) (*client.AnnotationList, error)
}

// Failure names an image whose annotation could not be transferred.
type Failure struct {
	ImageName string `json:"image_name"`
	File      string `json:"file,omitempty"`
	Error     string `json:"error"`
}

// Report summarises one import or export run.
type Report struct {
	RunID    string        `json:"run_id"`
	Total    int           `json:"total"`
	Saved    int           `json:"saved"`
	Failed   []Failure     `json:"failed,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Importer uploads and downloads annotation files.
type Importer struct {
	store Store
	cfg   shardqueue.Config
	log   zerolog.Logger
}

// NewImporter returns an importer saving through store. cfg tunes the
// sharded executor; its Retryable and OnResult fields are overwritten.
func NewImporter(store Store, cfg shardqueue.Config, log zerolog.Logger) *Importer {
	return &Importer{store: store, cfg: cfg, log: log.With().Str("component", "bulk").Logger()}
}

type annotationFile struct {
	path      string
	imageName string
	data      client.Payload
}

// ImportDir saves every *.json file in dir. Files for the same image are
// saved in name order; different images are saved in parallel. Failures
// are collected in the report; only a bad directory or a submission
// problem aborts the run.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*Report, error) {
	start := time.Now()
	files, failed, err := readDir(dir)
	if err != nil {
		return nil, err
	}
	rep := &Report{RunID: uuid.NewString(), Total: len(files) + len(failed), Failed: failed}
	log := im.log.With().Str("run_id", rep.RunID).Logger()

	var (
		mu     sync.Mutex
		byName = map[string][]string{} // image name -> files in flight, oldest first
		keys   []string
	)
	cfg := im.cfg
	cfg.Logger = log
	cfg.Retryable = func(err error) bool { return !client.IsIrrecoverable(err) }
	cfg.OnResult = func(key string, err error) {
		mu.Lock()
		defer mu.Unlock()
		var file string
		if q := byName[key]; len(q) > 0 {
			file, byName[key] = q[0], q[1:]
		}
		if err == nil {
			rep.Saved++
			return
		}
		rep.Failed = append(rep.Failed, Failure{ImageName: key, File: file, Error: err.Error()})
	}

	ex := shardqueue.New(cfg)
	for _, f := range files {
		mu.Lock()
		if _, seen := byName[f.imageName]; !seen {
			keys = append(keys, f.imageName)
		}
		byName[f.imageName] = append(byName[f.imageName], f.path)
		mu.Unlock()
		job := shardqueue.JobFunc(func(ctx context.Context) error {
			_, err := im.store.SaveAnnotation(ctx, f.imageName, f.data)
			return err
		})
		err := retryFull(func() error { return ex.Submit(ctx, f.imageName, job) })
		if err != nil {
			mu.Lock()
			q := byName[f.imageName]
			byName[f.imageName] = q[:len(q)-1]
			mu.Unlock()
			flush(ctx, ex, keys, log)
			return nil, errors.Wrapf(err, "submit %s", f.path)
		}
	}
	flush(ctx, ex, keys, log)

	sort.Slice(rep.Failed, func(i, j int) bool { return rep.Failed[i].ImageName < rep.Failed[j].ImageName })
	rep.Duration = time.Since(start)
	log.Info().
		Int("total", rep.Total).
		Int("saved", rep.Saved).
		Int("failed", len(rep.Failed)).
		Dur("elapsed", rep.Duration).
		Msg("annotation import finished")
	return rep, nil
}

// retryFull waits out back-pressure instead of failing the run.
func retryFull(enqueue func() error) error {
	for {
		err := enqueue()
		if !errors.Is(err, shardqueue.ErrQueueFull) {
			return err
		}
	}
}

// flush lets every key finish its queued saves, retries included, then
// stops the executor. If ctx ends first, Stop runs what is left once; those
// jobs see the cancelled context and report it.
func flush(ctx context.Context, ex *shardqueue.Executor, keys []string, log zerolog.Logger) {
	for _, k := range keys {
		if err := retryFull(func() error { return ex.Barrier(ctx, k) }); err != nil {
			log.Warn().Err(err).Str("image", k).Msg("flush interrupted")
			break
		}
	}
	ex.Stop()
}

// readDir parses the annotation files of dir, sorted by file name. Files
// that are not JSON objects are returned as failures.
func readDir(dir string) ([]annotationFile, []Failure, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "list annotation files")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, errors.Wrap(err, "annotation directory")
	}
	sort.Strings(matches)

	var (
		files  []annotationFile
		failed []Failure
	)
	for _, p := range matches {
		stem := strings.TrimSuffix(filepath.Base(p), ".json")
		raw, err := os.ReadFile(p)
		if err != nil {
			failed = append(failed, Failure{ImageName: stem, File: p, Error: err.Error()})
			continue
		}
		var data client.Payload
		if err := json.Unmarshal(raw, &data); err != nil || data == nil {
			if err == nil {
				err = fmt.Errorf("not a JSON object")
			}
			failed = append(failed, Failure{ImageName: stem, File: p, Error: err.Error()})
			continue
		}
		name := stem
		if n, ok := data["image_name"].(string); ok && n != "" {
			name = n
		}
		files = append(files, annotationFile{path: p, imageName: name, data: data})
	}
	return files, failed, nil
}

// ExportDir writes every stored annotation to <dir>/<stem>.json, creating
// dir when missing. Existing files are overwritten.
func (im *Importer) ExportDir(ctx context.Context, dir string) (*Report, error) {
	start := time.Now()
	list, err := im.store.GetAllAnnotations(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create export directory")
	}

	rep := &Report{RunID: uuid.NewString(), Total: len(list.Annotations)}
	for _, rec := range list.Annotations {
		p := filepath.Join(dir, FileName(rec.ImageName))
		b, err := json.MarshalIndent(rec.Annotation, "", "  ")
		if err == nil {
			err = os.WriteFile(p, append(b, '\n'), 0o644)
		}
		if err != nil {
			rep.Failed = append(rep.Failed, Failure{ImageName: rec.ImageName, File: p, Error: err.Error()})
			continue
		}
		rep.Saved++
	}
	rep.Duration = time.Since(start)
	im.log.Info().
		Str("run_id", rep.RunID).
		Int("total", rep.Total).
		Int("written", rep.Saved).
		Msg("annotation export finished")
	return rep, nil
}

// FileName maps an image name to its annotation file name: the extension
// is replaced by .json and path separators are flattened.
func FileName(imageName string) string {
	base := strings.NewReplacer("/", "_", `\`, "_").Replace(imageName)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == ".." {
		base = "_"
	}
	return base + ".json"
}
