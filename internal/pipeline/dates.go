package pipeline

import (
	"strings"
	"time"
)

// dayFirstLayouts are tried in order; the source sheets write DD/MM/YYYY
// but exports occasionally carry ISO dates or a time component.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2 Jan 2006",
	"02 Jan 2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"2-Jan-06",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses a day-first date. Blank and unparseable values yield nil.
func ParseDate(raw string) *time.Time {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "nan") || strings.EqualFold(v, "nat") {
		return nil
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// civilDate drops the clock part, keeping the calendar date as UTC midnight.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in loc as UTC midnight, so it
// compares directly with parsed source dates.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return civilDate(now.In(loc))
}

// daysBetween returns floor((to - from) / 24h).
func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
