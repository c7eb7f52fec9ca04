package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/domain/export"
	"github.com/rpggio/readtrail/internal/domain/insight"
)

// InsightService defines the activity queries needed by MCP.
type InsightService interface {
	Records(ctx context.Context, f insight.Filter) ([]activity.Record, error)
	Heatmap(ctx context.Context, f insight.Filter) (insight.Heatmap, error)
	Groups(ctx context.Context, f insight.Filter) ([]insight.ArticleGroup, error)
	Days(ctx context.Context, f insight.Filter) ([]insight.DateGroup, error)
	Facets(ctx context.Context, field insight.FacetField, n int, f insight.Filter) ([]insight.Facet, error)
	Vocabulary(ctx context.Context) ([]activity.Tag, []string, error)
	Range(preset string, from, to time.Time) (time.Time, time.Time, error)
	Location() *time.Location
	Now() time.Time
}

// ExportService defines export operations needed by MCP.
type ExportService interface {
	Render(ctx context.Context, f insight.Filter) (export.Result, error)
	Publish(ctx context.Context, f insight.Filter) (export.Result, error)
}

// ContextSource exposes the classifier's current attribution context.
type ContextSource interface {
	Context() activity.Context
}

// Services contains all domain services needed by MCP.
type Services struct {
	Insight InsightService
	Export  ExportService
	Context ContextSource
}

// Config contains server configuration.
type Config struct {
	Services      Services
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "readtrail",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only; HTTP checks the bearer token when one is configured.
	if cfg.TransportMode != "stdio" && cfg.AuthToken != "" {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(callMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
