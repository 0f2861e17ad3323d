package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/vendorchat/pkg/api"
)

// Logging emits one structured entry per completion with the provider,
// requested and resolved model, tool call count and duration.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Completer) Completer {
		return CompleterFunc(func(ctx context.Context, providerID string, req *api.ChatRequest) (*api.ChatResponse, error) {
			start := time.Now()
			resp, err := next.Complete(ctx, providerID, req)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("provider", providerID),
				slog.Duration("duration", time.Since(start)),
			}
			if req != nil && req.Model != "" {
				attrs = append(attrs, slog.String("requested_model", req.Model))
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "completion failed", attrs...)
				return nil, err
			}

			attrs = append(attrs,
				slog.String("model", resp.Model),
				slog.Int("tool_calls", len(resp.ToolCalls)))
			logger.LogAttrs(ctx, slog.LevelInfo, "completion finished", attrs...)
			return resp, nil
		})
	}
}
