package insight

import (
	"errors"
	"fmt"
	"time"
)

// Range presets accepted by RangeFor.
const (
	RangeToday  = "today"
	RangeWeek   = "week"
	RangeMonth  = "month"
	RangeYear   = "year"
	RangeCustom = "custom"
)

// ErrInvalidRange reports an unknown preset or unusable custom bounds.
var ErrInvalidRange = errors.New("invalid time range")

// RangeFor resolves a preset to inclusive bounds relative to now. Custom
// ranges take from and to as calendar days; to covers its whole day.
func RangeFor(preset string, now, from, to time.Time, loc *time.Location) (time.Time, time.Time, error) {
	now = now.In(location(loc))
	today := midnight(now, loc)
	switch preset {
	case "", RangeToday:
		return today, now, nil
	case RangeWeek:
		return today.AddDate(0, 0, -7), now, nil
	case RangeMonth:
		return today.AddDate(0, -1, 0), now, nil
	case RangeYear:
		return today.AddDate(0, 0, -(DefaultDays - 1)), now, nil
	case RangeCustom:
		if from.IsZero() || to.IsZero() {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: custom range needs both dates", ErrInvalidRange)
		}
		start := midnight(from, loc)
		end := midnight(to, loc)
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end before start", ErrInvalidRange)
		}
		return start, end, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRange, preset)
}

// DayLabel renders t relative to now: "Today", "Yesterday" or a long date.
func DayLabel(t, now time.Time, loc *time.Location) string {
	day := midnight(t, loc)
	today := midnight(now, loc)
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return day.Format("Monday, January 2, 2006")
}
