package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/storage"
)

type seen struct {
	identity *Identity
	tenant   string
	called   bool
}

func recordingHandler(s *seen) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.called = true
		s.identity = IdentityFrom(r.Context())
		s.tenant = storage.TenantFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_Bypass(t *testing.T) {
	var s seen
	h := Middleware(&Chain{DefaultDecision: No}, DefaultBypassEndpoints)(recordingHandler(&s))

	for _, path := range DefaultBypassEndpoints {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestMiddleware_Rejects(t *testing.T) {
	var s seen
	h := Middleware(&Chain{DefaultDecision: No}, DefaultBypassEndpoints)(recordingHandler(&s))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/chat/completions", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if s.called {
		t.Error("next handler ran for a rejected request")
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate header")
	}

	var body api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Error == nil || body.Error.Code != "unauthenticated" {
		t.Errorf("error body = %+v", body.Error)
	}
}

func TestMiddleware_InjectsIdentityAndTenant(t *testing.T) {
	chain := &Chain{Authenticators: []Authenticator{
		&fixedAuthn{result: Result{Decision: Yes, Identity: &Identity{Subject: "alice", TenantID: "org-1"}}},
	}}
	var s seen
	h := Middleware(chain, nil)(recordingHandler(&s))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/providers", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if s.identity == nil || s.identity.Subject != "alice" {
		t.Errorf("identity = %+v", s.identity)
	}
	if s.tenant != "org-1" {
		t.Errorf("tenant = %q, want org-1", s.tenant)
	}
}

func TestMiddleware_NoTenantLeavesStorageUnscoped(t *testing.T) {
	var s seen
	h := Middleware(&Chain{DefaultDecision: Yes}, nil)(recordingHandler(&s))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/providers", nil))

	if s.tenant != "" {
		t.Errorf("tenant = %q, want empty", s.tenant)
	}
	if s.identity == nil || s.identity.Subject != "anonymous" {
		t.Errorf("identity = %+v, want anonymous", s.identity)
	}
}

func TestMiddleware_EmptySubject(t *testing.T) {
	chain := &Chain{Authenticators: []Authenticator{
		&fixedAuthn{result: Result{Decision: Yes, Identity: &Identity{}}},
	}}
	var s seen
	h := Middleware(chain, nil)(recordingHandler(&s))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/providers", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if s.called {
		t.Error("next handler ran")
	}
}
