package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

// Version is incremented whenever default prompts change incompatibly.
const Version = "v1"

// defaultFS holds the embedded prompt assets.
//
//go:embed default/prompt_template.txt default/json_fields.json
var defaultFS embed.FS

// Field describes one entry of the annotation JSON schema the backend
// validates VLM output against.
type Field struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Required     bool    `json:"required"`
	DefaultValue string  `json:"defaultValue"`
	Description  string  `json:"description"`
	Children     []Field `json:"children"`
}

// Defaults is the JSON-serialisable structure returned to callers.
type Defaults struct {
	Version        string  `json:"version"`
	PromptTemplate string  `json:"prompt_template"`
	JSONFields     []Field `json:"json_fields"`
}

// LoadDefaults returns the embedded defect-classification prompt template
// and its json_fields schema.
func LoadDefaults() (*Defaults, error) {
	tmpl, err := fs.ReadFile(defaultFS, "default/prompt_template.txt")
	if err != nil {
		return nil, fmt.Errorf("prompt template missing: %w", err)
	}
	raw, err := fs.ReadFile(defaultFS, "default/json_fields.json")
	if err != nil {
		return nil, fmt.Errorf("json fields missing: %w", err)
	}
	var fields []Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode json fields: %w", err)
	}
	return &Defaults{
		Version:        Version,
		PromptTemplate: string(tmpl),
		JSONFields:     fields,
	}, nil
}

// ConfigPatch returns the defaults shaped as an update-config payload, so
// callers can reset a backend's prompt with UpdateConfig.
func (d *Defaults) ConfigPatch() map[string]any {
	fields := make([]any, 0, len(d.JSONFields))
	for _, f := range d.JSONFields {
		fields = append(fields, f.patch())
	}
	return map[string]any{
		"prompt_template": d.PromptTemplate,
		"json_fields":     fields,
	}
}

func (f Field) patch() map[string]any {
	children := make([]any, 0, len(f.Children))
	for _, c := range f.Children {
		children = append(children, c.patch())
	}
	return map[string]any{
		"name":         f.Name,
		"type":         f.Type,
		"required":     f.Required,
		"defaultValue": f.DefaultValue,
		"description":  f.Description,
		"children":     children,
	}
}

// RequiredFields lists the top-level field names marked required.
func (d *Defaults) RequiredFields() []string {
	var out []string
	for _, f := range d.JSONFields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}
