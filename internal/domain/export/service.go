package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/readtrail/internal/domain/insight"
)

// ErrNothingToExport is returned when the selection holds no activity.
var ErrNothingToExport = errors.New("no activity matches the selection")

// Publisher delivers a rendered memo to an external notes service.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// Result describes a rendered export.
type Result struct {
	Text     string
	Records  int
	Articles int
}

// Service renders and publishes activity exports.
type Service struct {
	insight   *insight.Service
	publisher Publisher
	sourceTag string
	logger    *slog.Logger
}

// NewService creates a new export service. publisher may be nil when only
// rendering is needed.
func NewService(in *insight.Service, publisher Publisher, sourceTag string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if sourceTag == "" {
		sourceTag = DefaultSourceTag
	}
	return &Service{insight: in, publisher: publisher, sourceTag: sourceTag, logger: logger}
}

// Render formats the activity matching f.
func (s *Service) Render(ctx context.Context, f insight.Filter) (Result, error) {
	groups, err := s.insight.Groups(ctx, f)
	if err != nil {
		return Result{}, err
	}
	res := Result{Articles: len(groups)}
	for _, g := range groups {
		res.Records += len(g.Activities)
	}
	if res.Records == 0 {
		return res, ErrNothingToExport
	}
	res.Text = Format(groups, FormatOptions{SourceTag: s.sourceTag, Location: s.insight.Location()})
	return res, nil
}

// Publish renders the activity matching f and sends it to the publisher.
func (s *Service) Publish(ctx context.Context, f insight.Filter) (Result, error) {
	if s.publisher == nil {
		return Result{}, errors.New("no publisher configured")
	}
	res, err := s.Render(ctx, f)
	if err != nil {
		return res, err
	}
	if err := s.publisher.Publish(ctx, res.Text); err != nil {
		s.logger.Warn("export publish failed", "records", res.Records, "error", err)
		return res, fmt.Errorf("publish export: %w", err)
	}
	s.logger.Info("export published", "records", res.Records, "articles", res.Articles)
	return res, nil
}
