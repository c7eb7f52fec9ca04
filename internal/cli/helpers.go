package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/readtrail/internal/config"
	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/domain/export"
	"github.com/rpggio/readtrail/internal/domain/insight"
	"github.com/rpggio/readtrail/internal/flomo"
	"github.com/rpggio/readtrail/internal/sqlite"
)

// open returns the injected app, or loads config and opens the configured
// database. The caller must call the returned release function.
func (e *env) open() (*app, func(), error) {
	if e.app != nil {
		return e.app, func() {}, nil
	}

	cfg, err := config.LoadFrom(e.globals.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if e.globals.DB != "" {
		cfg.DB.Path = e.globals.DB
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve timezone: %w", err)
	}

	logger := slog.New(slog.DiscardHandler)
	if e.globals.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if dir := filepath.Dir(cfg.DB.Path); cfg.DB.Path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	a := newApp(sqlite.NewActivityRepository(db, logger), cfg, loc, logger)
	return a, func() {
		if err := a.close(); err != nil {
			logger.Warn("failed to close activity store", "error", err)
		}
	}, nil
}

func newApp(repo *sqlite.ActivityRepository, cfg config.Config, loc *time.Location, logger *slog.Logger, opts ...insight.Option) *app {
	opts = append([]insight.Option{insight.WithLocation(loc), insight.WithDays(cfg.Heatmap.Days)}, opts...)
	in := insight.NewService(repo, logger, opts...)
	return &app{
		repo:    repo,
		insight: in,
		export:  export.NewService(in, flomo.NewClient(cfg.Flomo.WebhookURL, logger), cfg.Flomo.SourceTag, logger),
		close:   repo.Cleanup,
	}
}

// filter turns the command line selection into an insight filter.
func (f FilterFlags) filter(in *insight.Service) (insight.Filter, error) {
	out := insight.Filter{Type: f.Type, Tags: f.Tags, Colors: f.Colors, AttributedOnly: f.Attributed}
	if f.Type != "" && f.Type != insight.TypeAll && !activity.ActivityType(f.Type).Valid() {
		return insight.Filter{}, fmt.Errorf("unknown activity type %q", f.Type)
	}

	preset := f.Range
	if preset == "" && (f.From != "" || f.To != "") {
		preset = insight.RangeCustom
	}
	if preset == "" {
		return out, nil
	}

	var from, to time.Time
	var err error
	if f.From != "" {
		if from, err = time.ParseInLocation(insight.DateLayout, f.From, in.Location()); err != nil {
			return insight.Filter{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if f.To != "" {
		if to, err = time.ParseInLocation(insight.DateLayout, f.To, in.Location()); err != nil {
			return insight.Filter{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	out.Start, out.End, err = in.Range(preset, from, to)
	if err != nil {
		return insight.Filter{}, err
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
