package doubao

import (
	"github.com/rhuss/vendorchat/pkg/provider"
	"github.com/rhuss/vendorchat/pkg/provider/openaicompat"
)

const (
	ID               = "doubao"
	DefaultBaseURL   = "https://ark.cn-beijing.volces.com/api/v3"
	DefaultModel     = "doubao-1.5-pro-128k"
	CredentialEnvVar = "DOUBAO_API_KEY"
)

const maxOutputTokens = 4096

// Descriptor holds Doubao's endpoint defaults and model catalog.
var Descriptor = provider.Descriptor{
	ID:               ID,
	DisplayName:      "Doubao",
	Description:      "Doubao chat completion provider",
	DefaultBaseURL:   DefaultBaseURL,
	DefaultModel:     DefaultModel,
	CredentialEnvVar: CredentialEnvVar,
	Capabilities: []string{
		provider.CapabilityChat,
		provider.CapabilityCompletion,
		provider.CapabilityToolCalls,
	},
	Models: []provider.ModelInfo{
		{ID: "doubao-1.5-pro-128k", DisplayName: "Doubao 1.5 Pro 128k", ContextWindow: 128000, MaxOutputTokens: maxOutputTokens,
			Capabilities: []string{provider.CapabilityChat, provider.CapabilityCompletion, provider.CapabilityToolCalls}},
		{ID: "doubao-1.5-pro-256k", DisplayName: "Doubao 1.5 Pro 256k", ContextWindow: 256000, MaxOutputTokens: maxOutputTokens,
			Capabilities: []string{provider.CapabilityChat, provider.CapabilityCompletion, provider.CapabilityToolCalls}},
		{ID: "doubao-1.5-mini-128k", DisplayName: "Doubao 1.5 Mini 128k", ContextWindow: 128000, MaxOutputTokens: maxOutputTokens,
			Capabilities: []string{provider.CapabilityChat, provider.CapabilityCompletion}},
		{ID: "doubao-1.5-flash-128k", DisplayName: "Doubao 1.5 Flash 128k", ContextWindow: 128000, MaxOutputTokens: maxOutputTokens,
			Capabilities: []string{provider.CapabilityChat, provider.CapabilityCompletion}},
		{ID: "doubao-1.5-flash-256k", DisplayName: "Doubao 1.5 Flash 256k", ContextWindow: 256000, MaxOutputTokens: maxOutputTokens,
			Capabilities: []string{provider.CapabilityChat, provider.CapabilityCompletion}},
	},
}

// New creates a Doubao adapter.
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
