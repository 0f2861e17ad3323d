package provider

// Capability tags used in ProviderInfo and ModelInfo.
const (
	CapabilityChat       = "chat"
	CapabilityCompletion = "completion"
	CapabilityToolCalls  = "tool_calls"
	CapabilityCode       = "code"
	CapabilityVision     = "vision"
)

// Config field types advertised in ConfigField.FieldType.
const (
	FieldTypeSecret = "secret"
	FieldTypeText   = "text"
)

// Descriptor is the immutable per-vendor parameter set. One generic adapter
// implementation is instantiated once per Descriptor.
type Descriptor struct {
	ID          string
	DisplayName string
	Description string

	DefaultBaseURL   string
	DefaultModel     string
	CredentialEnvVar string

	Capabilities []string

	// Models is the static, hand-maintained catalog for this vendor.
	Models []ModelInfo
}

// ProviderInfo is the static descriptive record an adapter exposes to
// orchestration layers (setup wizards, registries, status pages).
type ProviderInfo struct {
	ID                string            `json:"id"`
	DisplayName       string            `json:"display_name"`
	CredentialEnvVars []string          `json:"credential_env_vars"`
	Capabilities      []string          `json:"capabilities"`
	Defaults          map[string]string `json:"defaults"`
	ConfigFields      []ConfigField     `json:"config_fields"`
}

// ConfigField describes one configurable setting of a provider.
type ConfigField struct {
	ID          string `json:"id"`
	FieldType   string `json:"field_type"`
	DisplayName string `json:"display_name"`
	Prompt      string `json:"prompt"`
	EnvVar      string `json:"env_var,omitempty"`
	Default     string `json:"default,omitempty"`
	Required    bool   `json:"required"`
}

// ModelInfo is a static catalog entry.
type ModelInfo struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"display_name"`
	ContextWindow   int      `json:"context_window"`
	MaxOutputTokens int      `json:"max_output_tokens"`
	Capabilities    []string `json:"capabilities"`
}

// Info builds the ProviderInfo advertised for d.
func (d Descriptor) Info() ProviderInfo {
	return ProviderInfo{
		ID:                d.ID,
		DisplayName:       d.DisplayName,
		CredentialEnvVars: []string{d.CredentialEnvVar},
		Capabilities:      append([]string(nil), d.Capabilities...),
		Defaults: map[string]string{
			"base_url":      d.DefaultBaseURL,
			"default_model": d.DefaultModel,
		},
		ConfigFields: []ConfigField{
			{
				ID:          "api_key",
				FieldType:   FieldTypeSecret,
				DisplayName: "API Key",
				Prompt:      d.DisplayName + " API key",
				EnvVar:      d.CredentialEnvVar,
				Required:    true,
			},
			{
				ID:          "base_url",
				FieldType:   FieldTypeText,
				DisplayName: "Base URL",
				Prompt:      d.DisplayName + " API base URL",
				Default:     d.DefaultBaseURL,
			},
			{
				ID:          "default_model",
				FieldType:   FieldTypeText,
				DisplayName: "Default Model",
				Prompt:      d.DisplayName + " model used when a request names none",
				Default:     d.DefaultModel,
			},
		},
	}
}

// Catalog returns a copy of the model catalog so callers cannot mutate the
// descriptor.
func (d Descriptor) Catalog() []ModelInfo {
	models := make([]ModelInfo, len(d.Models))
	for i, m := range d.Models {
		m.Capabilities = append([]string(nil), m.Capabilities...)
		models[i] = m
	}
	return models
}
