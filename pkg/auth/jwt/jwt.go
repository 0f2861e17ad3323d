// Package jwt authenticates HMAC-signed JWT bearer tokens.
//
// Tokens must be signed with HS256 using the shared secret and carry a
// non-empty subject. Issuer and audience are checked when configured. The
// tenant is read from a configurable claim and scopes from "scope".
package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/rhuss/vendorchat/pkg/auth"
	"github.com/rhuss/vendorchat/pkg/debug"
)

// Config holds the JWT authenticator settings.
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string

	// TenantClaim names the claim holding the tenant id. Default "tenant_id".
	TenantClaim string
}

// Authenticator validates bearer JWTs.
type Authenticator struct {
	secret      []byte
	tenantClaim string
	opts        []jwtlib.ParserOption
}

var _ auth.Authenticator = (*Authenticator)(nil)

// New returns an authenticator. An empty secret is rejected.
func New(cfg Config) (*Authenticator, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt: secret must not be empty")
	}
	tenantClaim := cfg.TenantClaim
	if tenantClaim == "" {
		tenantClaim = "tenant_id"
	}

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(cfg.Audience))
	}

	return &Authenticator{
		secret:      cfg.Secret,
		tenantClaim: tenantClaim,
		opts:        opts,
	}, nil
}

// Authenticate abstains without a bearer token. A token that is not a JWT
// (no two dots) also abstains so an API key authenticator later in the
// chain can claim it.
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.Result {
	raw, ok := auth.BearerToken(r)
	if !ok || strings.Count(raw, ".") != 2 {
		return auth.Result{Decision: auth.Abstain}
	}

	claims := jwtlib.MapClaims{}
	_, err := jwtlib.ParseWithClaims(raw, claims, func(*jwtlib.Token) (any, error) {
		return a.secret, nil
	}, a.opts...)
	if err != nil {
		debug.Log(debug.Auth, "jwt rejected", "error", err)
		return auth.Result{Decision: auth.No, Err: fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return auth.Result{Decision: auth.No, Err: fmt.Errorf("%w: missing sub claim", auth.ErrInvalidToken)}
	}

	id := &auth.Identity{
		Subject:  sub,
		TenantID: stringClaim(claims, a.tenantClaim),
		Scopes:   scopes(claims["scope"]),
	}
	return auth.Result{Decision: auth.Yes, Identity: id}
}

func stringClaim(claims jwtlib.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// scopes accepts a space separated string or an array of strings.
func scopes(v any) []string {
	switch t := v.(type) {
	case string:
		if f := strings.Fields(t); len(f) > 0 {
			return f
		}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
