// Package period maps calendar dates to the period identifiers that key
// quota counters: ISO week, calendar month, and calendar year.
package period

import (
	"fmt"
	"regexp"
	"time"
)

// ISODateLayout is the canonical YYYY-MM-DD wire format for dates.
const ISODateLayout = "2006-01-02"

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsISODate reports whether s looks like a YYYY-MM-DD date.
func IsISODate(s string) bool {
	if !isoDateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(ISODateLayout, s)
	return err == nil
}

// Parse returns the midnight time for an ISO date string.
func Parse(dateISO string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, dateISO)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateISO, err)
	}
	return t, nil
}

// Format renders t as an ISO date.
func Format(t time.Time) string {
	return t.Format(ISODateLayout)
}

// ISOWeekKey returns the ISO-8601 week identifier, e.g. "2025-W01". Weeks
// start on Monday; week 1 contains the year's first Thursday, so near year
// boundaries the ISO year may differ from the calendar year. That is
// intentional ISO behavior, not a bug.
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKey returns "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// YearKey returns "YYYY".
func YearKey(t time.Time) string {
	return t.Format("2006")
}

// Weekday returns the day of week with Sunday=0 .. Saturday=6, matching the
// indices stored in RecurringTask.WeekDays.
func Weekday(t time.Time) int {
	return int(t.Weekday())
}

// MonthDayKey returns "MM-DD", the key used by yearly fixed-date sets.
func MonthDayKey(t time.Time) string {
	return t.Format("01-02")
}
