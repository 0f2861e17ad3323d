package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/rhuss/vendorchat/pkg/api"
)

// Provider abstracts one LLM vendor behind the neutral chat model.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// All state is fixed at construction.
type Provider interface {
	// Name returns the provider identifier (e.g., "deepseek", "qwen").
	Name() string

	// Info returns static descriptive metadata.
	Info() ProviderInfo

	// ListModels returns the hand-maintained model catalog. No network
	// call is made.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Complete performs one blocking chat completion. Overrides take
	// precedence over the request, which takes precedence over adapter
	// defaults.
	Complete(ctx context.Context, req *api.ChatRequest, overrides Overrides) (*api.ChatResponse, error)

	// ExtractToolCalls returns the tool calls carried by resp. The result
	// is never nil.
	ExtractToolCalls(resp *api.ChatResponse) []api.ToolCall

	// Close releases provider resources (idle HTTP connections).
	Close() error
}

// Overrides are per-call settings that win over the request fields.
// Zero values mean "not overridden".
type Overrides struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
}

// Config is the construction-time configuration of an adapter. Empty
// fields fall back to the vendor's Descriptor defaults, and an empty
// APIKey falls back to the vendor's credential environment variable.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string

	// Timeout bounds each vendor round trip. Defaults to 30s.
	Timeout time.Duration

	// HTTPClient replaces the adapter's pooled client (useful for tests).
	// When set, Timeout is applied per request through the context.
	HTTPClient *http.Client
}
