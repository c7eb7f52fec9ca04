// Package testserver runs the ingest stack against an in-memory store.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/domain/insight"
	"github.com/rpggio/readtrail/internal/host"
	"github.com/rpggio/readtrail/internal/sqlite"
	"github.com/rpggio/readtrail/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Repo     *sqlite.ActivityRepository
	Catalog  *host.Catalog
	Activity *activity.Service
	Pipeline *activity.Pipeline
	Insight  *insight.Service
	Token    string
}

func New(t *testing.T, token string, opts ...activity.Option) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	repo := sqlite.NewActivityRepository(db, nil)
	catalog := host.NewCatalog(nil)
	tracker := activity.NewTracker(catalog, nil)
	svc := activity.NewService(repo, tracker, nil, opts...)
	pipeline := activity.NewPipeline(svc, 64, nil)
	pipeline.Start(context.Background())

	server := httptest.NewServer(transport.NewServer(pipeline, catalog, transport.AuthMiddleware(token), nil))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Repo:     repo,
		Catalog:  catalog,
		Activity: svc,
		Pipeline: pipeline,
		Insight:  insight.NewService(repo, nil),
		Token:    token,
	}

	t.Cleanup(func() {
		server.Close()
		pipeline.Close()
		_ = repo.Cleanup()
	})

	return ts
}

// Do sends body as JSON with the server's bearer token.
func (ts *TestServer) Do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// Notify posts one host notification and requires it to be accepted.
func (ts *TestServer) Notify(t *testing.T, event, kind string, ids ...any) {
	t.Helper()
	resp := ts.Do(t, http.MethodPost, "/notify", transport.NotifyRequest{Event: event, Type: kind, IDs: ids})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

// Drain stops intake and waits for every queued notification to be recorded.
func (ts *TestServer) Drain() {
	ts.Pipeline.Close()
}
