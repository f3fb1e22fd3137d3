package types

// ------------------------------
// Response Types
// ------------------------------

// ImageList mirrors GET /images.
type ImageList struct {
	Images []Image `json:"images"`
}

// AnnotationList mirrors GET /annotations.
type AnnotationList struct {
	Annotations []AnnotationRecord `json:"annotations"`
}

// FolderSelection mirrors POST /select-folder. A selection the backend could
// not complete still decodes here when it is reported with a 2xx status.
type FolderSelection struct {
	Success        bool   `json:"success"`
	FolderPath     string `json:"folder_path,omitempty"`
	FolderType     string `json:"folder_type,omitempty"`
	Message        string `json:"message,omitempty"`
	Method         string `json:"method,omitempty"`
	GUIAvailable   bool   `json:"gui_available"`
	UseManualInput bool   `json:"use_manual_input,omitempty"`
}

// Ack is the generic write acknowledgement ({"success": true, "message": ...}).
type Ack struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
	Config  Payload `json:"config,omitempty"`
}
