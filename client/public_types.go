package client

import "github.com/vlm-annotator/annotator/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	Payload = types.Payload

	// Requests
	SelectFolderRequest = types.SelectFolderRequest
	OpenFolderRequest   = types.OpenFolderRequest

	// Domain entities
	Image            = types.Image
	AnnotationRecord = types.AnnotationRecord

	// Responses
	ImageList       = types.ImageList
	AnnotationList  = types.AnnotationList
	FolderSelection = types.FolderSelection
	Ack             = types.Ack
)

// Folder types accepted by SelectFolder and OpenFolder.
const (
	FolderImages      = types.FolderImages
	FolderAnnotations = types.FolderAnnotations
	FolderData        = types.FolderData
)

// EscapeSegment is the percent-encoding applied to every filename or image
// name placed in a URL path.
func EscapeSegment(name string) string { return types.EscapeSegment(name) }
