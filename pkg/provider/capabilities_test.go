package provider

import "testing"

var testCatalog = []ModelInfo{
	{ID: "big", Capabilities: []string{CapabilityChat, CapabilityToolCalls}},
	{ID: "small", Capabilities: []string{CapabilityChat}},
}

func TestHasCapability(t *testing.T) {
	caps := []string{CapabilityChat, CapabilityToolCalls}
	if !HasCapability(caps, CapabilityToolCalls) {
		t.Error("expected tool_calls capability")
	}
	if HasCapability(caps, CapabilityVision) {
		t.Error("did not expect vision capability")
	}
	if HasCapability(nil, CapabilityChat) {
		t.Error("nil caps must not match")
	}
}

func TestFindModel(t *testing.T) {
	m, ok := FindModel(testCatalog, "small")
	if !ok || m.ID != "small" {
		t.Fatalf("FindModel(small) = %+v, %v", m, ok)
	}
	if _, ok := FindModel(testCatalog, "missing"); ok {
		t.Error("expected missing model not to be found")
	}
}

func TestSupportsTools(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"big", true},
		{"small", false},
		{"uncatalogued", true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := SupportsTools(testCatalog, tt.model); got != tt.want {
				t.Errorf("SupportsTools(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}
