package qwen

import (
	"github.com/rhuss/vendorchat/pkg/provider"
	"github.com/rhuss/vendorchat/pkg/provider/openaicompat"
)

const (
	ID               = "qwen"
	DefaultBaseURL   = "https://api.tongyi.ai/v1"
	DefaultModel     = "qwen2.5-7b-instruct"
	CredentialEnvVar = "QWEN_API_KEY"
)

// All Qwen 2.5 instruct models share the same limits.
const (
	contextWindow   = 256000
	maxOutputTokens = 4096
)

var (
	toolCapable = []string{provider.CapabilityChat, provider.CapabilityCompletion, provider.CapabilityToolCalls}
	textOnly    = []string{provider.CapabilityChat, provider.CapabilityCompletion}
)

// Descriptor holds Qwen's endpoint defaults and model catalog.
var Descriptor = provider.Descriptor{
	ID:               ID,
	DisplayName:      "Qwen",
	Description:      "Qwen chat completion provider",
	DefaultBaseURL:   DefaultBaseURL,
	DefaultModel:     DefaultModel,
	CredentialEnvVar: CredentialEnvVar,
	Capabilities:     toolCapable,
	Models: []provider.ModelInfo{
		instruct("72b", "72B", toolCapable),
		instruct("32b", "32B", toolCapable),
		instruct("14b", "14B", toolCapable),
		instruct("7b", "7B", toolCapable),
		instruct("3b", "3B", textOnly),
		instruct("1.5b", "1.5B", textOnly),
	},
}

// instruct builds the catalog entry for qwen2.5-<size>-instruct.
func instruct(size, label string, caps []string) provider.ModelInfo {
	return provider.ModelInfo{
		ID:              "qwen2.5-" + size + "-instruct",
		DisplayName:     "Qwen 2.5 " + label + " Instruct",
		ContextWindow:   contextWindow,
		MaxOutputTokens: maxOutputTokens,
		Capabilities:    append([]string(nil), caps...),
	}
}

// New creates a Qwen adapter.
func New(cfg provider.Config) (provider.Provider, error) {
	a, err := openaicompat.New(Descriptor, cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}

var Module = provider.Module{
	ID:          "provider-" + ID,
	ProviderID:  ID,
	DisplayName: Descriptor.DisplayName,
	Description: Descriptor.Description,
	New:         New,
}
