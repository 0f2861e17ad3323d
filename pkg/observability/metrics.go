// Package observability provides Prometheus metrics and HTTP middleware
// for the vendorchat gateway and its provider adapters.
package observability

import (
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets covers chat completion latencies from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Provider call outcomes used as the status label.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// OtherLabel stands in for model and function names outside the known set
// so client input cannot grow label cardinality.
const OtherLabel = "other"

var (
	// RequestsTotal counts gateway HTTP requests.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendorchat_requests_total",
			Help: "Gateway HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records gateway request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vendorchat_request_duration_seconds",
			Help:    "Gateway request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "route"},
	)

	// InflightRequests tracks requests currently being served.
	InflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vendorchat_inflight_requests",
			Help: "Requests currently in flight",
		},
	)

	// ProviderRequestsTotal counts vendor round trips.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendorchat_provider_requests_total",
			Help: "Vendor chat completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ProviderLatency records vendor round-trip latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vendorchat_provider_latency_seconds",
			Help:    "Vendor round-trip latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// ProviderTokensTotal counts tokens reported in vendor usage blocks.
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendorchat_provider_tokens_total",
			Help: "Tokens reported by vendors",
		},
		[]string{"provider", "model", "direction"},
	)

	// ToolCallsTotal counts tool calls returned by vendors.
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendorchat_tool_calls_total",
			Help: "Tool calls returned by vendors",
		},
		[]string{"provider", "function"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		InflightRequests,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		ToolCallsTotal,
	)
}

// ProviderCall is the outcome of one vendor round trip.
type ProviderCall struct {
	Provider string

	// Model must be a catalog model or OtherLabel.
	Model string
	Err      error
	Duration time.Duration

	// Usage is the vendor usage block; prompt_tokens and completion_tokens
	// are counted when present and numeric.
	Usage map[string]any

	// Functions names each returned tool call, bounded like Model.
	Functions []string
}

// BoundedLabel returns v if it is one of known, OtherLabel otherwise.
func BoundedLabel(v string, known ...string) string {
	if slices.Contains(known, v) {
		return v
	}
	return OtherLabel
}

// RecordProviderCall updates all provider metrics for one round trip.
func RecordProviderCall(c ProviderCall) {
	status := StatusOK
	if c.Err != nil {
		status = StatusError
	}
	ProviderRequestsTotal.WithLabelValues(c.Provider, c.Model, status).Inc()
	ProviderLatency.WithLabelValues(c.Provider, c.Model).Observe(c.Duration.Seconds())

	if n, ok := tokenCount(c.Usage, "prompt_tokens"); ok {
		ProviderTokensTotal.WithLabelValues(c.Provider, c.Model, "input").Add(n)
	}
	if n, ok := tokenCount(c.Usage, "completion_tokens"); ok {
		ProviderTokensTotal.WithLabelValues(c.Provider, c.Model, "output").Add(n)
	}
	for _, fn := range c.Functions {
		ToolCallsTotal.WithLabelValues(c.Provider, fn).Inc()
	}
}

// tokenCount reads a non-negative number from a decoded JSON usage block.
func tokenCount(usage map[string]any, key string) (float64, bool) {
	switch v := usage[key].(type) {
	case float64:
		return v, v >= 0
	case int:
		return float64(v), v >= 0
	default:
		return 0, false
	}
}
