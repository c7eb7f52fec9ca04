package insight

import (
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
)

// TypeAll selects every activity type.
const TypeAll = "all"

// Filter selects records for a view. Zero bounds and empty sets do not
// constrain the result.
type Filter struct {
	Start  time.Time
	End    time.Time
	Type   string
	Tags   []string
	Colors []string

	// AttributedOnly drops records not tied to an article.
	AttributedOnly bool
}

// Match reports whether rec passes every constraint of f.
func (f Filter) Match(rec activity.Record) bool {
	if f.AttributedOnly && rec.ArticleKey == "" {
		return false
	}
	if !f.Start.IsZero() && rec.Timestamp.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && rec.Timestamp.After(f.End) {
		return false
	}
	if f.Type != "" && f.Type != TypeAll && string(rec.ActivityType) != f.Type {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(rec, f.Tags) {
		return false
	}
	if len(f.Colors) > 0 && !contains(f.Colors, rec.AnnotationColor) {
		return false
	}
	return true
}

// Apply returns the records matching f, preserving order.
func (f Filter) Apply(records []activity.Record) []activity.Record {
	out := make([]activity.Record, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func hasAnyTag(rec activity.Record, selected []string) bool {
	for _, tag := range rec.AnnotationTags {
		if contains(selected, tag.Tag) {
			return true
		}
	}
	for _, tag := range rec.ArticleTags {
		if contains(selected, tag.Tag) {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
