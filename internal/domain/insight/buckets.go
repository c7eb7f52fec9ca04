package insight

import (
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
)

// DateLayout keys every day bucket.
const DateLayout = "2006-01-02"

// DefaultDays is the heatmap window length.
const DefaultDays = 365

// DayKey returns the local calendar date of t.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(DateLayout)
}

// BucketByDay counts records per local calendar date.
func BucketByDay(records []activity.Record, loc *time.Location) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[DayKey(rec.Timestamp, loc)]++
	}
	return counts
}

// Window is a run of whole local days ending on End, inclusive.
type Window struct {
	End  time.Time
	Days int
	Loc  *time.Location
}

// LastDays returns the window of days days ending on the local date of now.
func LastDays(now time.Time, days int, loc *time.Location) Window {
	if days <= 0 {
		days = DefaultDays
	}
	return Window{End: midnight(now, loc), Days: days, Loc: location(loc)}
}

// First returns midnight of the first day in the window.
func (w Window) First() time.Time {
	end := midnight(w.End, w.Loc)
	return time.Date(end.Year(), end.Month(), end.Day()-(w.Days-1), 0, 0, 0, 0, end.Location())
}

// Day returns midnight of the i-th day in the window.
func (w Window) Day(i int) time.Time {
	first := w.First()
	return time.Date(first.Year(), first.Month(), first.Day()+i, 0, 0, 0, 0, first.Location())
}

// Keys lists every date key of the window in ascending order.
func (w Window) Keys() []string {
	keys := make([]string, w.Days)
	for i := range keys {
		keys[i] = w.Day(i).Format(DateLayout)
	}
	return keys
}

// Bounds returns the first and last instants covered by the window.
func (w Window) Bounds() (time.Time, time.Time) {
	end := midnight(w.End, w.Loc)
	last := time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, end.Location()).Add(-time.Nanosecond)
	return w.First(), last
}

// DailyCounts returns a dense map with exactly one key per window day.
// Records outside the window are not counted.
func DailyCounts(records []activity.Record, w Window) map[string]int {
	counts := make(map[string]int, w.Days)
	for _, key := range w.Keys() {
		counts[key] = 0
	}
	for _, rec := range records {
		key := DayKey(rec.Timestamp, w.Loc)
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}
	return counts
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(location(loc))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
