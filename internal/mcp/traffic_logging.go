package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload caps logged payloads; exports can be large.
const maxLoggedPayload = 2048

// trafficLoggingMiddleware logs every tool call at info and full payloads
// at debug.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil {
				return next(ctx, method, req)
			}
			c := callFrom(ctx)
			debug := logger.Enabled(ctx, slog.LevelDebug)
			if debug {
				logger.Debug("mcp request", "direction", direction, "method", method, "call_id", c.ID, "session_id", c.SessionID, "params", formatPayload(paramsOf(req)))
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			if method == "tools/call" {
				attrs := []any{"tool", c.Target, "call_id", c.ID, "session_id", c.SessionID, "elapsed", elapsed}
				if res, ok := result.(*sdkmcp.CallToolResult); ok && res.IsError {
					attrs = append(attrs, "tool_error", true)
				}
				if err != nil {
					attrs = append(attrs, "error", err)
				}
				logger.Info("tool call", attrs...)
			}
			if debug {
				logger.Debug("mcp response", "direction", direction, "method", method, "call_id", c.ID, "elapsed", elapsed, "result", formatPayload(result), "error", err)
			}
			return result, err
		}
	}
}

func paramsOf(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return fmt.Sprintf("%s... (%d bytes)", data[:maxLoggedPayload], len(data))
	}
	return string(data)
}
