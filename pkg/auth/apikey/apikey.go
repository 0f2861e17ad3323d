// Package apikey authenticates bearer tokens against a static key list.
// Keys are kept only as SHA-256 digests and compared in constant time.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/rhuss/vendorchat/pkg/auth"
)

// Key binds a plaintext key to the identity it grants.
type Key struct {
	Key      string
	Subject  string
	TenantID string
}

type entry struct {
	digest   [sha256.Size]byte
	identity auth.Identity
}

// Authenticator validates bearer tokens.
type Authenticator struct {
	entries []entry
}

var _ auth.Authenticator = (*Authenticator)(nil)

// New hashes keys immediately; plaintext is not retained. Entries without
// a subject use the tenant id, then "apikey", as subject.
func New(keys []Key) *Authenticator {
	a := &Authenticator{entries: make([]entry, 0, len(keys))}
	for _, k := range keys {
		subject := k.Subject
		if subject == "" {
			subject = k.TenantID
		}
		if subject == "" {
			subject = "apikey"
		}
		a.entries = append(a.entries, entry{
			digest:   sha256.Sum256([]byte(k.Key)),
			identity: auth.Identity{Subject: subject, TenantID: k.TenantID},
		})
	}
	return a
}

// Authenticate abstains without a bearer token, and otherwise votes Yes on
// a known key and No on anything else.
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.Result {
	token, ok := auth.BearerToken(r)
	if !ok {
		return auth.Result{Decision: auth.Abstain}
	}
	if token == "" {
		return auth.Result{Decision: auth.No, Err: auth.ErrUnauthenticated}
	}

	digest := sha256.Sum256([]byte(token))
	matched := -1
	for i := range a.entries {
		// Scan every entry so timing does not reveal the match position.
		if subtle.ConstantTimeCompare(digest[:], a.entries[i].digest[:]) == 1 && matched < 0 {
			matched = i
		}
	}
	if matched < 0 {
		return auth.Result{Decision: auth.No, Err: auth.ErrInvalidToken}
	}
	id := a.entries[matched].identity
	return auth.Result{Decision: auth.Yes, Identity: &id}
}
