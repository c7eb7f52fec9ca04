package activity

import (
	"context"
	"errors"
	"log/slog"
)

// Slot names one of the four focus positions the tracker remembers.
type Slot int

const (
	SlotArticle Slot = iota
	SlotAttachment
	SlotAnnotation
	SlotNote
)

// Lifetime says how long a slot value survives.
type Lifetime int

const (
	// Sticky slots hold "what document is open" until replaced or closed.
	Sticky Lifetime = iota
	// SingleShot slots are consumed by the next successful write.
	SingleShot
)

// Lifetime returns the lifetime class of the slot.
func (s Slot) Lifetime() Lifetime {
	switch s {
	case SlotAnnotation, SlotNote:
		return SingleShot
	default:
		return Sticky
	}
}

func (s Slot) String() string {
	switch s {
	case SlotArticle:
		return "article"
	case SlotAttachment:
		return "attachment"
	case SlotAnnotation:
		return "annotation"
	case SlotNote:
		return "note"
	default:
		return "unknown"
	}
}

var allSlots = []Slot{SlotArticle, SlotAttachment, SlotAnnotation, SlotNote}

// Context is a copy of the tracker slots at one point in time.
type Context struct {
	Article    *Entity
	Attachment *Entity
	Annotation *Entity
	Note       *Entity
}

// Tracker holds the engine's belief about what the user is acting on.
// It is not safe for concurrent use; Service serializes access.
type Tracker struct {
	resolver EntityResolver
	logger   *slog.Logger
	slots    [4]*Entity
}

// NewTracker creates a tracker with empty slots.
func NewTracker(resolver EntityResolver, logger *slog.Logger) *Tracker {
	return &Tracker{resolver: resolver, logger: orDiscard(logger)}
}

// Resolve looks up an entity by id, falling back to the tab mapping.
// Lookup failures degrade to nil.
func (t *Tracker) Resolve(ctx context.Context, id string) *Entity {
	if id == "" || t.resolver == nil {
		return nil
	}
	entity, err := t.resolver.Entity(ctx, id)
	if err != nil && !errors.Is(err, ErrEntityNotFound) {
		t.logger.Warn("entity lookup failed", "id", id, "error", errors.Join(ErrResolution, err))
	}
	if entity != nil {
		return entity
	}
	entity, err = t.resolver.EntityForTab(ctx, id)
	if err != nil && !errors.Is(err, ErrEntityNotFound) {
		t.logger.Warn("tab lookup failed", "tab_id", id, "error", errors.Join(ErrResolution, err))
	}
	return entity
}

// ResolveParent resolves the parent of e, or nil when e has none.
func (t *Tracker) ResolveParent(ctx context.Context, e *Entity) *Entity {
	if e == nil || e.ParentID == "" {
		return nil
	}
	return t.Resolve(ctx, e.ParentID)
}

// Set stores entity in slot. A nil entity empties the slot.
func (t *Tracker) Set(slot Slot, e *Entity) {
	t.slots[slot] = e
}

// Get returns the entity held in slot.
func (t *Tracker) Get(slot Slot) *Entity {
	return t.slots[slot]
}

// Clear empties every slot whose lifetime is listed.
func (t *Tracker) Clear(lifetimes ...Lifetime) {
	for _, slot := range allSlots {
		for _, l := range lifetimes {
			if slot.Lifetime() == l {
				t.slots[slot] = nil
			}
		}
	}
}

// ClearOnClose empties all four slots.
func (t *Tracker) ClearOnClose() {
	t.Clear(Sticky, SingleShot)
}

// ClearSingleShot empties the annotation and note slots.
func (t *Tracker) ClearSingleShot() {
	t.Clear(SingleShot)
}

// Snapshot copies the current slots.
func (t *Tracker) Snapshot() Context {
	return Context{
		Article:    t.slots[SlotArticle],
		Attachment: t.slots[SlotAttachment],
		Annotation: t.slots[SlotAnnotation],
		Note:       t.slots[SlotNote],
	}
}

func (t *Tracker) restore(c Context) {
	t.slots[SlotArticle] = c.Article
	t.slots[SlotAttachment] = c.Attachment
	t.slots[SlotAnnotation] = c.Annotation
	t.slots[SlotNote] = c.Note
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
