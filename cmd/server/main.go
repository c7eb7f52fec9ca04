package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/readtrail/internal/config"
	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/domain/export"
	"github.com/rpggio/readtrail/internal/domain/insight"
	"github.com/rpggio/readtrail/internal/flomo"
	"github.com/rpggio/readtrail/internal/host"
	"github.com/rpggio/readtrail/internal/mcp"
	"github.com/rpggio/readtrail/internal/sqlite"
	"github.com/rpggio/readtrail/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path, maxLogSizeBytes, keepLogSizeBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	activityRepo := sqlite.NewActivityRepository(db, logger)
	defer func() {
		if err := activityRepo.Cleanup(); err != nil {
			logger.Error("failed to close activity store", "error", err)
		}
	}()

	catalog := host.NewCatalog(logger)
	tracker := activity.NewTracker(catalog, logger)
	activitySvc := activity.NewService(activityRepo, tracker, logger, activity.WithPolicy(cfg.Tracking.Policy()))
	pipeline := activity.NewPipeline(activitySvc, cfg.Tracking.QueueSize, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pipeline.Start(context.WithoutCancel(ctx))

	insightSvc := insight.NewService(activityRepo, logger, insight.WithLocation(loc), insight.WithDays(cfg.Heatmap.Days))
	exportSvc := export.NewService(insightSvc, flomo.NewClient(cfg.Flomo.WebhookURL, logger), cfg.Flomo.SourceTag, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Insight: insightSvc,
			Export:  exportSvc,
			Context: activitySvc,
		},
		AuthToken:     cfg.Auth.Token,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	router := transport.NewServer(pipeline, catalog, transport.AuthMiddleware(cfg.Auth.Token), logger)
	if cfg.Transport.Mode == "http" {
		mcpHandler := sdkmcp.NewStreamableHTTPHandler(
			func(r *http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{
				Stateless:      false,
				SessionTimeout: 30 * time.Minute,
			},
		)
		router.Handle("/mcp", mcpHandler)
		router.Handle("/mcp/*", mcpHandler)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server listening", "addr", addr, "transport", cfg.Transport.Mode, "auth", cfg.Auth.Token != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(ctx, logger, mcpServer)
	} else {
		<-ctx.Done()
	}

	shutdown(logger, httpServer, pipeline)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
	}
}

// shutdown stops intake first so the queue drains before the store closes.
func shutdown(logger *slog.Logger, server *http.Server, pipeline *activity.Pipeline) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down", "queued", pipeline.Depth())
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	pipeline.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
