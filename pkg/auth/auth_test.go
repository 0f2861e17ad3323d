package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fixedAuthn struct {
	result Result
	calls  int
}

func (f *fixedAuthn) Authenticate(context.Context, *http.Request) Result {
	f.calls++
	return f.result
}

func TestChain_FirstDecisionWins(t *testing.T) {
	tests := []struct {
		name    string
		first   Result
		want    Decision
		subject string
	}{
		{"yes stops", Result{Decision: Yes, Identity: &Identity{Subject: "alice"}}, Yes, "alice"},
		{"no stops", Result{Decision: No, Err: ErrInvalidToken}, No, ""},
		{"abstain continues", Result{Decision: Abstain}, Yes, "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			second := &fixedAuthn{result: Result{Decision: Yes, Identity: &Identity{Subject: "bob"}}}
			chain := &Chain{
				Authenticators:  []Authenticator{&fixedAuthn{result: tt.first}, second},
				DefaultDecision: No,
			}

			res := chain.Authenticate(context.Background(), httptest.NewRequest("GET", "/", nil))
			if res.Decision != tt.want {
				t.Fatalf("Decision = %v, want %v", res.Decision, tt.want)
			}
			if tt.subject != "" && res.Identity.Subject != tt.subject {
				t.Errorf("Subject = %q, want %q", res.Identity.Subject, tt.subject)
			}
			if tt.first.Decision != Abstain && second.calls != 0 {
				t.Errorf("second authenticator called %d times after a final decision", second.calls)
			}
		})
	}
}

func TestChain_AllAbstain(t *testing.T) {
	abstain := AuthenticatorFunc(func(context.Context, *http.Request) Result {
		return Result{Decision: Abstain}
	})
	r := httptest.NewRequest("GET", "/", nil)

	reject := &Chain{Authenticators: []Authenticator{abstain}, DefaultDecision: No}
	res := reject.Authenticate(context.Background(), r)
	if res.Decision != No || !errors.Is(res.Err, ErrUnauthenticated) {
		t.Errorf("default No: got %v / %v", res.Decision, res.Err)
	}

	allow := &Chain{Authenticators: []Authenticator{abstain}, DefaultDecision: Yes}
	res = allow.Authenticate(context.Background(), r)
	if res.Decision != Yes || res.Identity == nil || res.Identity.Subject != Anonymous.Subject {
		t.Errorf("default Yes: got %v / %+v", res.Decision, res.Identity)
	}
	// The returned identity must not alias the package variable.
	res.Identity.Subject = "mutated"
	if Anonymous.Subject != "anonymous" {
		t.Error("Anonymous was mutated through the result")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer sk-123", "sk-123", true},
		{"bearer sk-123", "sk-123", true},
		{"Bearer ", "", true},
		{"Bearer", "", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		token, ok := BearerToken(r)
		if token != tt.token || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, token, ok, tt.token, tt.ok)
		}
	}
}

func TestIdentityContext(t *testing.T) {
	if IdentityFrom(context.Background()) != nil {
		t.Error("empty context should carry no identity")
	}
	id := &Identity{Subject: "carol"}
	if got := IdentityFrom(WithIdentity(context.Background(), id)); got != id {
		t.Errorf("IdentityFrom = %+v, want %+v", got, id)
	}
}
