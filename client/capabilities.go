package client

import (
	"fmt"
	"strings"
)

// Capability marks an endpoint that only some backend builds serve.
type Capability uint8

const (
	CapExport Capability = 1 << iota
	CapDeleteImage
	CapAnnotationSummary
	CapThumbnails
)

// Presets matching known backend builds.
const (
	// CapabilitiesLegacy is the earliest backend: dataset export, no
	// thumbnails, deletion or summaries.
	CapabilitiesLegacy = CapExport
	// CapabilitiesCurrent is the current backend: export was dropped.
	CapabilitiesCurrent = CapDeleteImage | CapAnnotationSummary | CapThumbnails
	// CapabilitiesAll is the union of every endpoint ever served.
	CapabilitiesAll = CapabilitiesLegacy | CapabilitiesCurrent
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapExport, "export"},
	{CapDeleteImage, "delete-image"},
	{CapAnnotationSummary, "annotation-summary"},
	{CapThumbnails, "thumbnails"},
}

// Has reports whether every capability in want is present.
func (c Capability) Has(want Capability) bool { return c&want == want }

func (c Capability) String() string {
	var names []string
	for _, n := range capabilityNames {
		if c.Has(n.cap) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseCapabilities accepts a preset name ("legacy", "current", "all") or a
// comma separated list of capability names.
func ParseCapabilities(s string) (Capability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "current":
		return CapabilitiesCurrent, nil
	case "legacy":
		return CapabilitiesLegacy, nil
	case "all":
		return CapabilitiesAll, nil
	}
	var out Capability
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for _, n := range capabilityNames {
			if n.name == part {
				out |= n.cap
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown capability %q", part)
		}
	}
	return out, nil
}
