package timeline

import (
	"time"

	"github.com/noah-isme/roombook-api/internal/models"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) strictly overlap.
// Intervals that merely touch at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CoerceAllDay normalises the many encodings of the all-day flag into one
// boolean. Upstream sources mark events all-day either on the record itself or
// inside extended props, as a bool, the strings "true"/"1", or the number 1.
func CoerceAllDay(ev models.Event) bool {
	if ev.AllDay {
		return true
	}
	if ev.ExtendedProps == nil {
		return false
	}
	return coerceFlag(ev.ExtendedProps["isAllDay"])
}

func coerceFlag(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case int:
		return t == 1
	case int64:
		return t == 1
	case float64:
		return t == 1
	default:
		return false
	}
}

// NormalizeAllDay maps an all-day event onto the canonical
// [start-of-day, start-of-next-day) interval in loc. The result always spans
// at least one full calendar day, even when the stored end is missing,
// degenerate or earlier than the start.
func NormalizeAllDay(start, end time.Time, loc *time.Location) (time.Time, time.Time) {
	s := StartOfDay(start, loc)
	e := StartOfDay(end, loc)
	if !e.After(s) {
		e = s.AddDate(0, 0, 1)
	}
	return s, e
}

// StartOfDay returns midnight of the calendar day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
