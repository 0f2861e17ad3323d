// Package noop provides an authenticator that accepts every request as
// the anonymous identity.
package noop

import (
	"context"
	"net/http"

	"github.com/rhuss/vendorchat/pkg/auth"
)

// Authenticator always votes Yes.
type Authenticator struct{}

var _ auth.Authenticator = Authenticator{}

func (Authenticator) Authenticate(context.Context, *http.Request) auth.Result {
	id := auth.Anonymous
	return auth.Result{Decision: auth.Yes, Identity: &id}
}
