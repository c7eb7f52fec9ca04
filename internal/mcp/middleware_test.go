package mcp

import (
	"context"
	"net/http"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func toolRequest(name string, header http.Header) *sdkmcp.CallToolRequest {
	return &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: name},
		Extra:  &sdkmcp.RequestExtra{Header: header},
	}
}

func TestAuthMiddleware(t *testing.T) {
	var calls int
	next := func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		calls++
		return &sdkmcp.CallToolResult{}, nil
	}
	handler := authMiddleware("secret")(next)
	ctx := context.Background()

	_, err := handler(ctx, "tools/call", toolRequest("get_heatmap", nil))
	require.ErrorIs(t, err, errMissingToken)

	_, err = handler(ctx, "tools/call", toolRequest("get_heatmap", http.Header{"Authorization": {"Bearer nope"}}))
	require.ErrorIs(t, err, errInvalidToken)
	require.Zero(t, calls)

	_, err = handler(ctx, "tools/call", toolRequest("get_heatmap", http.Header{"Authorization": {"Bearer secret"}}))
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	_, err = handler(ctx, "initialize", toolRequest("", nil))
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestCallMiddleware(t *testing.T) {
	var got call
	next := func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		got = callFrom(ctx)
		return &sdkmcp.CallToolResult{}, nil
	}
	handler := callMiddleware()(next)

	_, err := handler(context.Background(), "tools/call", toolRequest("get_facets", http.Header{"Mcp-Session-Id": {"s-1"}}))
	require.NoError(t, err)
	require.Equal(t, "get_facets", got.Target)
	require.Equal(t, "s-1", got.SessionID)
	require.NotEmpty(t, got.ID)

	require.Equal(t, call{}, callFrom(context.Background()))
}

func TestFormatPayload(t *testing.T) {
	require.Equal(t, "<nil>", formatPayload(nil))
	require.Equal(t, `{"a":1}`, formatPayload(map[string]int{"a": 1}))

	long := formatPayload(strings.Repeat("x", maxLoggedPayload*2))
	require.True(t, strings.HasSuffix(long, "bytes)"))
	require.Less(t, len(long), maxLoggedPayload+64)
}
