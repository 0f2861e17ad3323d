package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/debug"
	"github.com/rhuss/vendorchat/pkg/storage"
)

// DefaultBypassEndpoints skip authentication.
var DefaultBypassEndpoints = []string{"/healthz", "/metrics"}

// Middleware authenticates every request not in bypass. Accepted requests
// carry the Identity and, when set, its tenant on the context.
func Middleware(chain *Chain, bypass []string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(bypass))
	for _, p := range bypass {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			res := chain.Authenticate(r.Context(), r)
			if res.Decision != Yes || res.Identity == nil {
				slog.Warn("authentication failed",
					"path", r.URL.Path, "remote_addr", r.RemoteAddr, "error", res.Err)
				writeUnauthorized(w)
				return
			}
			if res.Identity.Subject == "" {
				slog.Error("authenticator returned identity without subject")
				writeJSONError(w, http.StatusInternalServerError, api.NewServerError("internal authentication error"))
				return
			}

			debug.Log(debug.Auth, "authenticated", "subject", res.Identity.Subject, "tenant", res.Identity.TenantID)

			ctx := WithIdentity(r.Context(), res.Identity)
			if res.Identity.TenantID != "" {
				ctx = storage.WithTenant(ctx, res.Identity.TenantID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="vendorchat"`)
	writeJSONError(w, http.StatusUnauthorized, &api.APIError{
		Type:    api.ErrorTypeInvalidRequest,
		Code:    "unauthenticated",
		Message: "authentication required",
	})
}

func writeJSONError(w http.ResponseWriter, status int, apiErr *api.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}
