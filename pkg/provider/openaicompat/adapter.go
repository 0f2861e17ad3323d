package openaicompat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/debug"
	"github.com/rhuss/vendorchat/pkg/observability"
	"github.com/rhuss/vendorchat/pkg/provider"
)

// Adapter is the generic provider.Provider for OpenAI-style vendors. All
// fields are fixed at construction.
type Adapter struct {
	desc         provider.Descriptor
	client       *Client
	defaultModel string
}

var _ provider.Provider = (*Adapter)(nil)

// New builds an Adapter for desc. The API key comes from cfg.APIKey or,
// when empty, from the descriptor's credential environment variable. A
// missing key is a configuration error and no network activity happens.
func New(desc provider.Descriptor, cfg provider.Config) (*Adapter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(desc.CredentialEnvVar)
	}
	if apiKey == "" {
		return nil, api.NewConfigurationError(desc.CredentialEnvVar,
			fmt.Sprintf("%s API key missing: set %s or pass an api_key", desc.DisplayName, desc.CredentialEnvVar))
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = desc.DefaultBaseURL
	}
	model := cfg.DefaultModel
	if model == "" {
		model = desc.DefaultModel
	}

	a := &Adapter{
		desc:         desc,
		client:       NewClient(baseURL, apiKey, cfg.Timeout, cfg.HTTPClient),
		defaultModel: model,
	}
	debug.Log(debug.Providers, "adapter created",
		"provider", desc.ID, "endpoint", a.client.Endpoint(), "default_model", model)
	return a, nil
}

// Name returns the vendor id.
func (a *Adapter) Name() string {
	return a.desc.ID
}

// Info returns the static descriptive record.
func (a *Adapter) Info() provider.ProviderInfo {
	return a.desc.Info()
}

// DefaultModel returns the model used when neither overrides nor the
// request name one.
func (a *Adapter) DefaultModel() string {
	return a.defaultModel
}

// ListModels returns the static catalog.
func (a *Adapter) ListModels(_ context.Context) ([]provider.ModelInfo, error) {
	return a.desc.Catalog(), nil
}

// ResolveModel applies the precedence overrides, request, default.
func (a *Adapter) ResolveModel(req *api.ChatRequest, o provider.Overrides) string {
	switch {
	case o.Model != "":
		return o.Model
	case req != nil && req.Model != "":
		return req.Model
	default:
		return a.defaultModel
	}
}

// Complete performs one chat completion round trip. Every call hits the
// vendor exactly once.
func (a *Adapter) Complete(ctx context.Context, req *api.ChatRequest, o provider.Overrides) (*api.ChatResponse, error) {
	if req == nil {
		return nil, api.NewInvalidRequestError("", "request must not be nil")
	}

	model := a.ResolveModel(req, o)
	temperature := req.Temperature
	if o.Temperature != nil {
		temperature = o.Temperature
	}
	maxTokens := req.MaxTokens
	if o.MaxTokens != nil {
		maxTokens = o.MaxTokens
	}

	payload, err := json.Marshal(EncodeRequest(req, model, temperature, maxTokens))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	start := time.Now()
	resp, err := a.roundTrip(ctx, payload, model)
	call := observability.ProviderCall{
		Provider: a.desc.ID,
		Model:    a.modelLabel(model),
		Err:      err,
		Duration: time.Since(start),
	}
	if resp != nil {
		call.Usage = resp.Usage
		declared := make([]string, 0, len(req.Tools))
		for _, t := range req.Tools {
			declared = append(declared, t.Name)
		}
		for _, tc := range resp.ToolCalls {
			call.Functions = append(call.Functions, observability.BoundedLabel(tc.Function.Name, declared...))
		}
	}
	observability.RecordProviderCall(call)

	if err != nil {
		slog.Warn("chat completion failed", "provider", a.desc.ID, "model", model, "error", err)
		return nil, err
	}
	return resp, nil
}

// modelLabel keeps the metrics model label within the catalog plus the
// configured default.
func (a *Adapter) modelLabel(model string) string {
	if model == a.defaultModel {
		return model
	}
	if _, ok := provider.FindModel(a.desc.Models, model); ok {
		return model
	}
	return observability.OtherLabel
}

func (a *Adapter) roundTrip(ctx context.Context, payload []byte, model string) (*api.ChatResponse, error) {
	raw, err := a.client.Post(ctx, payload)
	if err != nil {
		return nil, err
	}
	if !raw.OK() {
		return nil, MapHTTPError(raw.StatusCode, raw.Body)
	}
	return DecodeBody(raw.Body, model)
}

// ExtractToolCalls returns resp's tool calls, never nil.
func (a *Adapter) ExtractToolCalls(resp *api.ChatResponse) []api.ToolCall {
	if resp == nil || resp.ToolCalls == nil {
		return []api.ToolCall{}
	}
	return resp.ToolCalls
}

// Close releases idle connections.
func (a *Adapter) Close() error {
	return a.client.Close()
}
