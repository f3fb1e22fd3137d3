package types

// ------------------------------
// Request Types
// ------------------------------

// SelectFolderRequest is the body of POST /select-folder. Every field is
// always serialised so the backend never has to guess defaults.
type SelectFolderRequest struct {
	FolderType string `json:"folder_type"`
	FolderPath string `json:"folder_path"`
	UseDialog  bool   `json:"use_dialog"`
}

// OpenFolderRequest is the body of POST /open-folder.
type OpenFolderRequest struct {
	FolderType string `json:"folder_type"`
}
