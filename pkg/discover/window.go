package discover

import "time"

// Symbolic day filter keys. Anything else is treated as an explicit
// "YYYY-MM-DD" date, and failing that, as no filter at all.
const (
	DayAnytime      = "anytime"
	DayHappeningNow = "happeningNow"
	DayToday        = "today" // labeled "Upcoming" in the UI
	DayTomorrow     = "tomorrow"
	DayThisWeekend  = "thisWeekend"
	DayThisWeek     = "thisWeek"
	DayNextWeek     = "nextWeek"
)

// Window is a half-open [Start, End) instant interval. A zero Start or
// End is unbounded on that side.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

// midnight returns 00:00 of t's calendar day in t's location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ResolveDayWindow computes the instant interval a day filter selects,
// relative to now in now's location. Unrecognized keys resolve to the
// unbounded window so a bad filter value passes everything through
// rather than hiding content.
func ResolveDayWindow(key string, now time.Time) Window {
	switch key {
	case DayAnytime:
		return Window{Start: now}
	case DayHappeningNow:
		// Started within the last two hours, read as "in progress".
		return Window{Start: now.Add(-2 * time.Hour), End: now}
	case DayToday:
		return Window{Start: now, End: now.AddDate(0, 0, 30)}
	case DayTomorrow:
		start := midnight(now).AddDate(0, 0, 1)
		return Window{Start: start, End: start.AddDate(0, 0, 1)}
	case DayThisWeekend:
		return weekendWindow(now)
	case DayThisWeek:
		return weekWindow(now)
	case DayNextWeek:
		return nextWeekWindow(now)
	}

	if day, err := time.ParseInLocation("2006-01-02", key, now.Location()); err == nil {
		start := day
		// On the current day, already-started items drop out.
		if day.Equal(midnight(now)) && now.After(start) {
			start = now
		}
		return Window{Start: start, End: day.AddDate(0, 0, 1)}
	}

	return Window{}
}

// weekendWindow covers Friday 00:00 through the following Monday 00:00
// of the current weekend. Mid-weekend, the start clamps to now so
// events that already finished drop out; the nominal Monday end stays.
func weekendWindow(now time.Time) Window {
	var friday time.Time
	switch wd := now.Weekday(); wd {
	case time.Friday:
		friday = midnight(now)
	case time.Saturday:
		friday = midnight(now).AddDate(0, 0, -1)
	case time.Sunday:
		friday = midnight(now).AddDate(0, 0, -2)
	default:
		friday = midnight(now).AddDate(0, 0, int(time.Friday-wd))
	}

	start := friday
	if now.After(start) {
		start = now
	}
	return Window{Start: start, End: friday.AddDate(0, 0, 3)}
}

// weekWindow runs from now through the end of the coming Sunday; the
// exclusive bound sits at the following Monday 00:00 so a 23:59:59
// start still qualifies. On a Sunday it extends through the next
// Sunday instead, keeping a full week of lookahead rather than a few
// remaining hours. Intentional, not a calendar-week bug.
func weekWindow(now time.Time) Window {
	days := (7 - int(now.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	sunday := midnight(now).AddDate(0, 0, days)
	return Window{Start: now, End: sunday.AddDate(0, 0, 1)}
}

// nextWeekWindow is the next full Monday-to-Monday calendar week,
// never partially overlapping the current one.
func nextWeekWindow(now time.Time) Window {
	days := (8 - int(now.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	monday := midnight(now).AddDate(0, 0, days)
	return Window{Start: monday, End: monday.AddDate(0, 0, 7)}
}
