package mcp

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	errMissingToken = errors.New("unauthorized: missing bearer token")
	errInvalidToken = errors.New("unauthorized: invalid bearer token")
)

// openMethods are served without a token so clients can handshake first.
var openMethods = map[string]bool{
	"initialize": true,
	"ping":       true,
}

type contextKey int

const callKey contextKey = iota

// call identifies one inbound MCP request in logs.
type call struct {
	ID        string
	SessionID string
	Target    string
}

func callFrom(ctx context.Context) call {
	c, _ := ctx.Value(callKey).(call)
	return c
}

// authMiddleware checks the static bearer token on every reporting call.
func authMiddleware(token string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if openMethods[method] || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}
			got := bearerToken(req)
			if got == "" {
				return nil, errMissingToken
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return nil, errInvalidToken
			}
			return next(ctx, method, req)
		}
	}
}

func bearerToken(req sdkmcp.Request) string {
	extra := req.GetExtra()
	if extra == nil || extra.Header == nil {
		return ""
	}
	auth := extra.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// callMiddleware tags the context with a call id, the session and the tool
// or resource being addressed.
func callMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			c := call{
				ID:        uuid.NewString(),
				SessionID: sessionOf(req),
				Target:    targetOf(req),
			}
			return next(context.WithValue(ctx, callKey, c), method, req)
		}
	}
}

// sessionOf prefers the HTTP session header and falls back to the transport
// session. Some notifications carry nil params or sessions, so lookups never
// panic out.
func sessionOf(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		if id = extra.Header.Get("Mcp-Session-Id"); id != "" {
			return id
		}
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func targetOf(req sdkmcp.Request) (target string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			target = ""
		}
	}()
	switch p := req.GetParams().(type) {
	case *sdkmcp.CallToolParamsRaw:
		return p.Name
	case *sdkmcp.ReadResourceParams:
		return p.URI
	}
	return ""
}
