package provider

import "slices"

// HasCapability reports whether tag is present in caps.
func HasCapability(caps []string, tag string) bool {
	return slices.Contains(caps, tag)
}

// FindModel looks up a model in a catalog by id.
func FindModel(models []ModelInfo, id string) (ModelInfo, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// SupportsTools reports whether the catalog entry for model advertises tool
// calling. Models missing from the catalog are assumed capable: the catalog
// is hand-maintained and vendors ship models faster than it is updated.
func SupportsTools(models []ModelInfo, model string) bool {
	m, ok := FindModel(models, model)
	if !ok {
		return true
	}
	return HasCapability(m.Capabilities, CapabilityToolCalls)
}
