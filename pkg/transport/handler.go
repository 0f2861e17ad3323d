package transport

import (
	"context"
	"log/slog"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/provider"
)

// Completer executes one chat completion against the provider named by
// providerID. An empty providerID selects the gateway default.
type Completer interface {
	Complete(ctx context.Context, providerID string, req *api.ChatRequest) (*api.ChatResponse, error)
}

// CompleterFunc adapts an ordinary function to Completer.
type CompleterFunc func(ctx context.Context, providerID string, req *api.ChatRequest) (*api.ChatResponse, error)

// Complete calls f(ctx, providerID, req).
func (f CompleterFunc) Complete(ctx context.Context, providerID string, req *api.ChatRequest) (*api.ChatResponse, error) {
	return f(ctx, providerID, req)
}

// Dispatcher routes requests to the adapters in a provider.Set.
type Dispatcher struct {
	providers       *provider.Set
	defaultProvider string
	validation      api.ValidationConfig
}

// NewDispatcher returns a Dispatcher over providers. defaultProvider is used
// when a request names none.
func NewDispatcher(providers *provider.Set, defaultProvider string, validation api.ValidationConfig) *Dispatcher {
	return &Dispatcher{
		providers:       providers,
		defaultProvider: defaultProvider,
		validation:      validation,
	}
}

// Provider resolves providerID (or the default) to an adapter.
func (d *Dispatcher) Provider(providerID string) (provider.Provider, *api.APIError) {
	if providerID == "" {
		providerID = d.defaultProvider
	}
	p, ok := d.providers.Get(providerID)
	if !ok {
		return nil, api.NewNotFoundError("provider " + providerID + " is not configured")
	}
	return p, nil
}

// Complete validates req and forwards it unchanged to the adapter. A
// request carrying tools for a model the catalog marks as text-only is
// still sent; the vendor decides.
func (d *Dispatcher) Complete(ctx context.Context, providerID string, req *api.ChatRequest) (*api.ChatResponse, error) {
	if apiErr := api.ValidateChatRequest(req, d.validation); apiErr != nil {
		return nil, apiErr
	}

	p, apiErr := d.Provider(providerID)
	if apiErr != nil {
		return nil, apiErr
	}

	if len(req.Tools) > 0 && req.Model != "" {
		models, _ := p.ListModels(ctx)
		if !provider.SupportsTools(models, req.Model) {
			slog.Warn("model is not catalogued as tool capable",
				"provider", p.Name(), "model", req.Model, "tools", len(req.Tools))
		}
	}

	return p.Complete(ctx, req, provider.Overrides{})
}
