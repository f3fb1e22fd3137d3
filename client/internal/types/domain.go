package types

// ------------------------------
// Core Domain Entities
// ------------------------------

// Payload is an opaque JSON object sent or received verbatim (configuration,
// annotation data, summaries, export artifacts).
type Payload = map[string]any

// Folder types understood by the backend.
const (
	FolderImages      = "images"
	FolderAnnotations = "annotations"
	FolderData        = "data"
)

// Image describes one image served by the backend.
type Image struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Annotated bool   `json:"annotated"`
	Size      int64  `json:"size,omitempty"`
	Modified  string `json:"modified,omitempty"`
}

// AnnotationRecord pairs an image stem with its stored annotation.
type AnnotationRecord struct {
	ImageName  string  `json:"image_name"`
	Annotation Payload `json:"annotation"`
}
