package transport

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/rhuss/vendorchat/pkg/api"
)

// Recovery converts a panic in the wrapped Completer into a server error.
func Recovery() Middleware {
	return func(next Completer) Completer {
		return CompleterFunc(func(ctx context.Context, providerID string, req *api.ChatRequest) (resp *api.ChatResponse, err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic during completion",
						"provider", providerID,
						"request_id", RequestIDFromContext(ctx),
						"panic", r,
						"stack", string(debug.Stack()))
					resp, err = nil, api.NewServerError(fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.Complete(ctx, providerID, req)
		})
	}
}
