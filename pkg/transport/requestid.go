package transport

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/rhuss/vendorchat/pkg/api"
)

// RequestID ensures the context carries a request ID, generating one when
// the HTTP layer did not propagate an X-Request-ID header.
func RequestID() Middleware {
	return func(next Completer) Completer {
		return CompleterFunc(func(ctx context.Context, providerID string, req *api.ChatRequest) (*api.ChatResponse, error) {
			if RequestIDFromContext(ctx) == "" {
				ctx = ContextWithRequestID(ctx, NewRequestID())
			}
			return next.Complete(ctx, providerID, req)
		})
	}
}

// NewRequestID returns 16 random bytes hex encoded.
func NewRequestID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
