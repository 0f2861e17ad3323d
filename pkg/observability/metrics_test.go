package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies every collector is visible in the default
// registry once it has been observed.
func TestMetricsRegistered(t *testing.T) {
	RequestsTotal.WithLabelValues("GET", "/healthz", "2xx").Inc()
	RequestDuration.WithLabelValues("GET", "/healthz").Observe(0.01)
	ProviderRequestsTotal.WithLabelValues("deepseek", "deepseek-chat", StatusOK).Inc()
	ProviderLatency.WithLabelValues("deepseek", "deepseek-chat").Observe(0.2)
	ProviderTokensTotal.WithLabelValues("deepseek", "deepseek-chat", "input").Add(3)
	ToolCallsTotal.WithLabelValues("deepseek", "get_weather").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	expected := map[string]bool{
		"vendorchat_requests_total":           false,
		"vendorchat_request_duration_seconds": false,
		"vendorchat_inflight_requests":        false,
		"vendorchat_provider_requests_total":  false,
		"vendorchat_provider_latency_seconds": false,
		"vendorchat_provider_tokens_total":    false,
		"vendorchat_tool_calls_total":         false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not registered", name)
		}
	}
}

func TestRecordProviderCall(t *testing.T) {
	okBefore := counterValue(t, ProviderRequestsTotal, "qwen", "qwen-test", StatusOK)
	errBefore := counterValue(t, ProviderRequestsTotal, "qwen", "qwen-test", StatusError)
	inBefore := counterValue(t, ProviderTokensTotal, "qwen", "qwen-test", "input")
	outBefore := counterValue(t, ProviderTokensTotal, "qwen", "qwen-test", "output")
	toolBefore := counterValue(t, ToolCallsTotal, "qwen", "lookup")

	RecordProviderCall(ProviderCall{
		Provider:  "qwen",
		Model:     "qwen-test",
		Duration:  150 * time.Millisecond,
		Usage:     map[string]any{"prompt_tokens": float64(12), "completion_tokens": float64(4), "total_tokens": "n/a"},
		Functions: []string{"lookup", "lookup"},
	})
	RecordProviderCall(ProviderCall{
		Provider: "qwen",
		Model:    "qwen-test",
		Err:      errors.New("boom"),
	})

	if d := counterValue(t, ProviderRequestsTotal, "qwen", "qwen-test", StatusOK) - okBefore; d != 1 {
		t.Errorf("ok delta = %f, want 1", d)
	}
	if d := counterValue(t, ProviderRequestsTotal, "qwen", "qwen-test", StatusError) - errBefore; d != 1 {
		t.Errorf("error delta = %f, want 1", d)
	}
	if d := counterValue(t, ProviderTokensTotal, "qwen", "qwen-test", "input") - inBefore; d != 12 {
		t.Errorf("input tokens delta = %f, want 12", d)
	}
	if d := counterValue(t, ProviderTokensTotal, "qwen", "qwen-test", "output") - outBefore; d != 4 {
		t.Errorf("output tokens delta = %f, want 4", d)
	}
	if d := counterValue(t, ToolCallsTotal, "qwen", "lookup") - toolBefore; d != 2 {
		t.Errorf("tool calls delta = %f, want 2", d)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	before := counterValue(t, RequestsTotal, "GET", "GET /v1/providers/{id}", "2xx")
	durBefore := histogramCount(t, RequestDuration, "GET", "GET /v1/providers/{id}")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/providers/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := MetricsMiddleware(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/providers/qwen", nil))

	if d := counterValue(t, RequestsTotal, "GET", "GET /v1/providers/{id}", "2xx") - before; d != 1 {
		t.Errorf("request count delta = %f, want 1", d)
	}
	if d := histogramCount(t, RequestDuration, "GET", "GET /v1/providers/{id}") - durBefore; d != 1 {
		t.Errorf("duration sample delta = %d, want 1", d)
	}
}

func TestMiddlewareCapturesStatusCode(t *testing.T) {
	before := counterValue(t, RequestsTotal, "POST", "unmatched", "4xx")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/v1/chat/completions", nil))

	if d := counterValue(t, RequestsTotal, "POST", "unmatched", "4xx") - before; d != 1 {
		t.Errorf("4xx delta = %f, want 1", d)
	}
}

func TestMiddlewareInflightGauge(t *testing.T) {
	baseline := gaugeValue(t, InflightRequests)

	var during float64
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = gaugeValue(t, InflightRequests)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", nil))

	if during != baseline+1 {
		t.Errorf("gauge during request = %f, want %f", during, baseline+1)
	}
	if after := gaugeValue(t, InflightRequests); after != baseline {
		t.Errorf("gauge after request = %f, want %f", after, baseline)
	}
}

func TestBoundedLabel(t *testing.T) {
	tests := []struct {
		v     string
		known []string
		want  string
	}{
		{"deepseek-chat", []string{"deepseek-chat", "deepseek-reasoner"}, "deepseek-chat"},
		{"made-up-model", []string{"deepseek-chat"}, OtherLabel},
		{"anything", nil, OtherLabel},
		{"", []string{"x"}, OtherLabel},
	}
	for _, tt := range tests {
		if got := BoundedLabel(tt.v, tt.known...); got != tt.want {
			t.Errorf("BoundedLabel(%q, %v) = %q, want %q", tt.v, tt.known, got, tt.want)
		}
	}
}

func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter: %v", err)
	}
	if err := c.Write(m); err != nil {
		t.Fatalf("writing counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, hv *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	obs, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting histogram: %v", err)
	}
	if err := obs.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("writing gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}
