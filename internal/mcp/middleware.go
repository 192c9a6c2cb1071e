package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs all incoming method calls.
// Each call gets an id so the client's log lines for one call can be grouped.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()
			attrs := []slog.Attr{
				slog.String("call_id", uuid.NewString()),
				slog.String("method", method),
			}
			if p, ok := req.GetParams().(*sdkmcp.CallToolParamsRaw); ok {
				attrs = append(attrs, slog.String("tool", p.Name))
			}

			result, err := next(ctx, method, req)

			attrs = append(attrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			switch {
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				slog.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
			case isToolError(result):
				slog.LogAttrs(ctx, slog.LevelWarn, "tool call returned an error", attrs...)
			default:
				slog.LogAttrs(ctx, slog.LevelInfo, "method call completed", attrs...)
			}

			return result, err
		}
	}
}

func isToolError(r sdkmcp.Result) bool {
	res, ok := r.(*sdkmcp.CallToolResult)
	return ok && res != nil && res.IsError
}
