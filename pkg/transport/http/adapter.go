package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/debug"
	"github.com/rhuss/vendorchat/pkg/observability"
	"github.com/rhuss/vendorchat/pkg/provider"
	"github.com/rhuss/vendorchat/pkg/storage"
	"github.com/rhuss/vendorchat/pkg/transport"
)

// Adapter serves the gateway API over HTTP.
type Adapter struct {
	completer transport.Completer
	providers *provider.Set
	store     storage.Store // nil when persistence is disabled
	inflight  *transport.InFlightRegistry
	mux       *http.ServeMux
	config    Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize     int64
	DefaultProvider string

	// MetricsPath enables the Prometheus endpoint when non-empty.
	MetricsPath string

	// Wrap is applied around the routed handler, inside request ID
	// propagation. The server uses it for authentication.
	Wrap func(http.Handler) http.Handler
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 10 << 20, // 10 MB
		MetricsPath: "/metrics",
	}
}

// completionRequest is the POST body: a ChatRequest plus the provider id.
type completionRequest struct {
	Provider string `json:"provider,omitempty"`
	api.ChatRequest
}

// listResponse is the envelope of every list endpoint.
type listResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

func newList[T any](data []T) listResponse[T] {
	if data == nil {
		data = []T{}
	}
	return listResponse[T]{Object: "list", Data: data}
}

// NewAdapter creates the HTTP adapter. store may be nil. Middleware wraps
// completer in the given order.
func NewAdapter(completer transport.Completer, providers *provider.Set, store storage.Store, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		completer = transport.Chain(middlewares...)(completer)
	}

	a := &Adapter{
		completer: completer,
		providers: providers,
		store:     store,
		inflight:  transport.NewInFlightRegistry(),
		mux:       http.NewServeMux(),
		config:    cfg,
	}

	a.mux.HandleFunc("POST /v1/chat/completions", a.handleChatCompletion)
	a.mux.HandleFunc("GET /v1/providers", a.handleListProviders)
	a.mux.HandleFunc("GET /v1/providers/{id}", a.handleGetProvider)
	a.mux.HandleFunc("GET /v1/providers/{id}/models", a.handleListModels)
	a.mux.HandleFunc("GET /v1/completions", a.handleListCompletions)
	a.mux.HandleFunc("GET /v1/completions/{id}", a.handleGetCompletion)
	a.mux.HandleFunc("DELETE /v1/completions/{id}", a.handleDeleteCompletion)
	a.mux.HandleFunc("GET /healthz", a.handleHealth)
	if cfg.MetricsPath != "" {
		a.mux.Handle("GET "+cfg.MetricsPath, promhttp.Handler())
	}

	return a
}

// Handler returns the full HTTP handler: request ID propagation, then
// Config.Wrap, then metrics around the routing mux.
func (a *Adapter) Handler() http.Handler {
	var h http.Handler = observability.MetricsMiddleware(a.mux)
	if a.config.Wrap != nil {
		h = a.config.Wrap(h)
	}
	return httpRequestIDMiddleware(h)
}

// CancelInFlight aborts every running vendor call.
func (a *Adapter) CancelInFlight() int {
	return a.inflight.CancelAll()
}

// httpRequestIDMiddleware takes X-Request-ID from the client or generates
// one, stores it on the context and echoes it on the response.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = transport.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		debug.Log(debug.Transport, "request received", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r.WithContext(transport.ContextWithRequestID(r.Context(), id)))
	})
}

// handleChatCompletion handles POST /v1/chat/completions.
func (a *Adapter) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r.Header.Get("Content-Type")) {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var body completionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteAPIError(w, api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()))
		return
	}

	providerID := body.Provider
	if providerID == "" {
		providerID = a.config.DefaultProvider
	}

	id := api.NewCompletionID()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	a.inflight.Register(id, cancel)
	defer a.inflight.Remove(id)

	resp, err := a.completer.Complete(ctx, providerID, &body.ChatRequest)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	if a.store != nil {
		rec := &storage.CompletionRecord{
			ID:        id,
			Provider:  providerID,
			Model:     resp.Model,
			Request:   &body.ChatRequest,
			Response:  resp,
			CreatedAt: time.Now().UTC(),
		}
		if err := a.store.Save(r.Context(), rec); err != nil {
			slog.Warn("failed to persist completion", "id", id, "error", err)
		} else {
			w.Header().Set("X-Completion-ID", id)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// acceptsJSON reports whether a request Content-Type is absent or
// application/json, ignoring parameters such as charset.
func acceptsJSON(ct string) bool {
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "application/json"
}

// handleListProviders handles GET /v1/providers.
func (a *Adapter) handleListProviders(w http.ResponseWriter, _ *http.Request) {
	infos := make([]provider.ProviderInfo, 0, a.providers.Len())
	for _, p := range a.providers.List() {
		infos = append(infos, p.Info())
	}
	writeJSON(w, http.StatusOK, newList(infos))
}

// handleGetProvider handles GET /v1/providers/{id}.
func (a *Adapter) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	p, ok := a.lookupProvider(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.Info())
}

// handleListModels handles GET /v1/providers/{id}/models.
func (a *Adapter) handleListModels(w http.ResponseWriter, r *http.Request) {
	p, ok := a.lookupProvider(w, r)
	if !ok {
		return
	}
	models, err := p.ListModels(r.Context())
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(models))
}

func (a *Adapter) lookupProvider(w http.ResponseWriter, r *http.Request) (provider.Provider, bool) {
	id := r.PathValue("id")
	p, ok := a.providers.Get(id)
	if !ok {
		transport.WriteAPIError(w, api.NewNotFoundError("provider "+id+" is not configured"))
		return nil, false
	}
	return p, true
}

// handleGetCompletion handles GET /v1/completions/{id}.
func (a *Adapter) handleGetCompletion(w http.ResponseWriter, r *http.Request) {
	id, ok := a.completionID(w, r)
	if !ok {
		return
	}
	rec, err := a.store.Get(r.Context(), id)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDeleteCompletion handles DELETE /v1/completions/{id}.
func (a *Adapter) handleDeleteCompletion(w http.ResponseWriter, r *http.Request) {
	id, ok := a.completionID(w, r)
	if !ok {
		return
	}
	if err := a.store.Delete(r.Context(), id); err != nil {
		transport.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListCompletions handles GET /v1/completions?provider=&limit=.
func (a *Adapter) handleListCompletions(w http.ResponseWriter, r *http.Request) {
	if !a.requireStore(w) {
		return
	}

	q := r.URL.Query()
	opts := storage.ListOptions{Provider: q.Get("provider")}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			transport.WriteAPIError(w, api.NewInvalidRequestError("limit", "limit must be a positive integer"))
			return
		}
		opts.Limit = limit
	}

	recs, err := a.store.List(r.Context(), opts)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(recs))
}

// completionID validates the {id} path value and that a store exists.
func (a *Adapter) completionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !a.requireStore(w) {
		return "", false
	}
	id := r.PathValue("id")
	if !api.ValidateCompletionID(id) {
		transport.WriteAPIError(w, api.NewInvalidRequestError("id", "malformed completion ID"))
		return "", false
	}
	return id, true
}

func (a *Adapter) requireStore(w http.ResponseWriter) bool {
	if a.store != nil {
		return true
	}
	transport.WriteErrorResponse(w,
		api.NewInvalidRequestError("", "completion records are not available (no store configured)"),
		http.StatusNotImplemented,
	)
	return false
}

// handleHealth handles GET /healthz.
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":    "ok",
		"providers": a.providers.Len(),
	}
	if a.store != nil {
		if err := a.store.HealthCheck(r.Context()); err != nil {
			slog.Warn("store health check failed", "error", err)
			status["status"] = "degraded"
			status["storage"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["storage"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response failed", "error", err)
	}
}
