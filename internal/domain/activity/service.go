package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service classifies notifier events and appends them to the activity log.
type Service struct {
	mu      sync.Mutex
	repo    Repository
	tracker *Tracker
	policy  ClosePolicy
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy overrides the default close and focus triggers.
func WithPolicy(p ClosePolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock overrides the capture clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new activity service. The service owns tracker.
func NewService(repo Repository, tracker *Tracker, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		tracker: tracker,
		policy:  DefaultClosePolicy(),
		logger:  orDiscard(logger),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify is the host-facing boundary. It records the notification and logs,
// never returns, any failure. Panics are recovered.
func (s *Service) Notify(ctx context.Context, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("activity classification panicked", "correlation_id", n.CorrelationID, "event", n.Event, "type", n.Kind, "ids", n.IDs, "panic", r)
		}
	}()
	if !n.Kind.Supported() {
		s.logger.Debug("ignoring notification", "correlation_id", n.CorrelationID, "event", n.Event, "type", n.Kind)
		return
	}
	rec, err := s.Record(ctx, n)
	if err != nil {
		s.logger.Warn("activity not recorded", "correlation_id", n.CorrelationID, "event", n.Event, "type", n.Kind, "ids", n.IDs, "error", err)
		return
	}
	s.logger.Debug("activity recorded", "correlation_id", n.CorrelationID, "id", rec.ID, "activity_type", rec.ActivityType, "activity_id", rec.ActivityID)
}

// Record classifies n, persists the result and consumes single-shot context.
// Classification and write happen in one critical section.
func (s *Service) Record(ctx context.Context, n Notification) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.classify(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		s.logger.Error("activity write failed", "correlation_id", n.CorrelationID, "activity_type", rec.ActivityType, "activity_id", rec.ActivityID, "article_id", rec.ArticleID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.tracker.ClearSingleShot()
	return rec, nil
}

// Classify previews the record n would produce. Nothing is persisted and
// the tracker context is left as it was.
func (s *Service) Classify(ctx context.Context, n Notification) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.tracker.Snapshot()
	defer s.tracker.restore(saved)
	return s.classify(ctx, n)
}

// Context returns a copy of the current tracker slots.
func (s *Service) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Snapshot()
}

func (s *Service) classify(ctx context.Context, n Notification) (*Record, error) {
	if len(n.IDs) == 0 || n.IDs[0] == "" {
		return nil, ErrMissingSubject
	}
	if !n.Kind.Supported() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, n.Kind)
	}
	t := s.tracker
	activityID := n.IDs[0]
	subject := t.Resolve(ctx, activityID)
	base := BaseType(n.Event, n.Kind)
	activityType := base

	if s.policy.Closes(base, activityID) {
		t.ClearOnClose()
	}
	if s.policy.Focuses(base) {
		t.Set(SlotAttachment, subject)
		t.Set(SlotArticle, t.ResolveParent(ctx, subject))
	}

	itemType := ""
	if subject != nil {
		itemType = subject.ItemType
	}
	switch itemType {
	case "":
		itemType = string(n.Kind)
	case ItemTypeAnnotation:
		t.Set(SlotAnnotation, subject)
		t.Set(SlotNote, nil)
		attachment := t.ResolveParent(ctx, subject)
		t.Set(SlotAttachment, attachment)
		t.Set(SlotArticle, t.ResolveParent(ctx, attachment))
		if n.Kind == KindItem {
			if at, ok := AnnotationType(n.Event, subject.AnnotationType); ok {
				activityType = at
			}
		}
	case ItemTypeAttachment:
		t.Set(SlotAttachment, subject)
		t.Set(SlotArticle, t.ResolveParent(ctx, subject))
	case ItemTypeNote:
		t.Set(SlotNote, subject)
		t.Set(SlotAnnotation, nil)
		t.Set(SlotArticle, t.ResolveParent(ctx, subject))
		if n.Kind == KindItem {
			if nt, ok := NoteType(n.Event); ok {
				activityType = nt
			}
		}
	default:
		t.Set(SlotArticle, subject)
	}

	rec := assemble(t.Snapshot(), n.Extra)
	rec.ActivityID = activityID
	rec.ActivityType = activityType
	rec.Event = n.Event
	rec.EntityKind = n.Kind
	rec.ItemType = itemType
	rec.Timestamp = s.now()
	return rec, nil
}

func assemble(c Context, notifierExtra json.RawMessage) *Record {
	rec := &Record{}
	if a := c.Article; a != nil {
		rec.LibraryID = a.LibraryID
		rec.CollectionIDs = a.Collections
		rec.ArticleID = a.ID
		rec.ArticleKey = a.Key
		rec.ArticleTitle = a.DisplayTitle
		rec.ArticleTags = a.Tags
		rec.ArticleAnnotations = a.Annotations
	}
	if a := c.Attachment; a != nil {
		rec.AttachmentID = a.ID
		rec.AttachmentKey = a.Key
		rec.AttachmentPath = a.AttachmentPath
	}
	if a := c.Annotation; a != nil {
		rec.AnnotationID = a.ID
		rec.AnnotationKey = a.Key
		rec.AnnotationText = a.AnnotationText
		rec.AnnotationComment = a.AnnotationComment
		rec.AnnotationTags = a.Tags
		rec.AnnotationColor = a.AnnotationColor
	} else if nt := c.Note; nt != nil {
		rec.NoteID = nt.ID
		rec.NoteKey = nt.Key
		rec.NoteText = nt.NoteText
	}
	extra := Extra{
		Article:    c.Article,
		Attachment: c.Attachment,
		Annotation: c.Annotation,
		Note:       c.Note,
	}
	if len(notifierExtra) > 0 && json.Valid(notifierExtra) {
		extra.Notifier = notifierExtra
	}
	if data, err := json.Marshal(extra); err == nil {
		rec.ExtraData = data
	}
	return rec
}
