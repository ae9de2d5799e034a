package core

import (
	"fmt"
	"time"
)

// monthKeyLayout is the canonical "YYYY-MM" grouping key used everywhere a
// record is bucketed by calendar month.
const monthKeyLayout = "2006-01"

// MonthKey returns the canonical month key for a date. Two dates belong to
// the same month iff their keys are equal.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// ParseMonthKey parses a "YYYY-MM" key into the first day of that month (UTC).
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month key %q: %w", key, err)
	}
	return t, nil
}

// AddMonths performs calendar-aware month addition. When the source day does
// not exist in the target month (e.g. Jan 31 + 1 month) the day clamps to the
// last day of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// TrailingMonths returns the keys of the n months ending at (and including)
// the month containing t, most recent first.
func TrailingMonths(t time.Time, n int) []string {
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, MonthKey(AddMonths(t, -i)))
	}
	return keys
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return MonthKey(a) == MonthKey(b)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
