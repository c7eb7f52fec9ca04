package insight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
)

// Service loads the activity log and computes views over it. Every call
// reads the store afresh.
type Service struct {
	store  Store
	logger *slog.Logger
	loc    *time.Location
	days   int
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the zone used for calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithDays sets the heatmap window length.
func WithDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.days = days
		}
	}
}

// WithClock overrides the clock that anchors windows and presets.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new insight service.
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		store:  store,
		logger: logger,
		loc:    time.Local,
		days:   DefaultDays,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone used for calendar days.
func (s *Service) Location() *time.Location { return s.loc }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Records returns the records matching f, newest first. The start bound
// and the attribution constraint are pushed down to the store.
func (s *Service) Records(ctx context.Context, f Filter) ([]activity.Record, error) {
	opts := activity.ListOptions{Since: f.Start}
	list := s.store.List
	if f.AttributedOnly {
		list = s.store.ListSimple
	}
	records, err := list(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	matched := f.Apply(records)
	s.logger.Debug("filtered activity", "loaded", len(records), "matched", len(matched))
	return matched, nil
}

// Heatmap counts the records matching f over the trailing window ending today.
// The window overrides any date bounds in f.
func (s *Service) Heatmap(ctx context.Context, f Filter) (Heatmap, error) {
	w := LastDays(s.now(), s.days, s.loc)
	f.Start, f.End = w.Bounds()
	records, err := s.Records(ctx, f)
	if err != nil {
		return Heatmap{}, err
	}
	return BuildHeatmap(DailyCounts(records, w), w), nil
}

// Groups returns the matching records grouped by article.
func (s *Service) Groups(ctx context.Context, f Filter) ([]ArticleGroup, error) {
	records, err := s.Records(ctx, f)
	if err != nil {
		return nil, err
	}
	return GroupByArticle(records), nil
}

// Days returns the matching records grouped by local date.
func (s *Service) Days(ctx context.Context, f Filter) ([]DateGroup, error) {
	records, err := s.Records(ctx, f)
	if err != nil {
		return nil, err
	}
	return GroupByDate(records, s.loc), nil
}

// Facets ranks the tag or color values of the matching records.
func (s *Service) Facets(ctx context.Context, field FacetField, n int, f Filter) ([]Facet, error) {
	records, err := s.Records(ctx, f)
	if err != nil {
		return nil, err
	}
	return TopFacets(records, field, n), nil
}

// Vocabulary returns every tag and color ever recorded.
func (s *Service) Vocabulary(ctx context.Context) ([]activity.Tag, []string, error) {
	tags, err := s.store.DistinctTags(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tags: %w", err)
	}
	colors, err := s.store.DistinctColors(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load colors: %w", err)
	}
	return tags, colors, nil
}

// Range resolves a preset against the service clock and zone.
func (s *Service) Range(preset string, from, to time.Time) (time.Time, time.Time, error) {
	return RangeFor(preset, s.now(), from, to, s.loc)
}
