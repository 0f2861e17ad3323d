package deepseek

import (
	"github.com/rhuss/vendorchat/pkg/provider"
	"github.com/rhuss/vendorchat/pkg/provider/openaicompat"
)

const (
	// ID is the provider identifier.
	ID = "deepseek"

	DefaultBaseURL   = "https://api.deepseek.com/v1"
	DefaultModel     = "deepseek-chat"
	CredentialEnvVar = "DEEPSEEK_API_KEY"
)

const (
	contextWindow   = 128000
	maxOutputTokens = 4096
)

// Descriptor holds DeepSeek's endpoint defaults and model catalog.
var Descriptor = provider.Descriptor{
	ID:               ID,
	DisplayName:      "DeepSeek",
	Description:      "DeepSeek chat completion provider",
	DefaultBaseURL:   DefaultBaseURL,
	DefaultModel:     DefaultModel,
	CredentialEnvVar: CredentialEnvVar,
	Capabilities: []string{
		provider.CapabilityChat,
		provider.CapabilityCompletion,
		provider.CapabilityToolCalls,
	},
	Models: []provider.ModelInfo{
		model("deepseek-chat", "DeepSeek Chat", provider.CapabilityChat, provider.CapabilityToolCalls),
		model("deepseek-llm", "DeepSeek LLM", provider.CapabilityChat, provider.CapabilityCompletion),
		model("deepseek-coder", "DeepSeek Coder", provider.CapabilityChat, provider.CapabilityCompletion, provider.CapabilityCode),
		model("deepseek-visual", "DeepSeek Visual", provider.CapabilityChat, provider.CapabilityVision),
		model("deepseek-r1", "DeepSeek R1", provider.CapabilityChat, provider.CapabilityCompletion, provider.CapabilityToolCalls),
	},
}

func model(id, name string, caps ...string) provider.ModelInfo {
	return provider.ModelInfo{
		ID:              id,
		DisplayName:     name,
		ContextWindow:   contextWindow,
		MaxOutputTokens: maxOutputTokens,
		Capabilities:    caps,
	}
}

// New creates a DeepSeek adapter.
func New(cfg provider.Config) (provider.Provider, error) {
	a, err := openaicompat.New(Descriptor, cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Module is the registration record for this provider.
var Module = provider.Module{
	ID:          "provider-" + ID,
	ProviderID:  ID,
	DisplayName: Descriptor.DisplayName,
	Description: Descriptor.Description,
	New:         New,
}
