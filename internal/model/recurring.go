package model

import (
	"regexp"
	"sort"
	"strings"
)

// RecurrenceKind is the cycle a recurring task repeats on.
type RecurrenceKind string

const (
	KindDaily   RecurrenceKind = "daily"
	KindWeekly  RecurrenceKind = "weekly"
	KindMonthly RecurrenceKind = "monthly"
	KindYearly  RecurrenceKind = "yearly"
)

func (k RecurrenceKind) IsValid() bool {
	switch k {
	case KindDaily, KindWeekly, KindMonthly, KindYearly:
		return true
	}
	return false
}

const (
	MinTimes = 1
	MaxTimes = 14

	MinIntensity = 1
	MaxIntensity = 7

	maxNoteLen = 1000
)

// RecurringTask repeats on a daily/weekly/monthly/yearly cycle.
//
// A non-empty fixed-day set (WeekDays/MonthDays/YearDates) puts the task in
// fixed mode for its kind; otherwise it is in quota mode and Times counts
// completions per period. DoneLog is keyed by exact date in fixed mode and
// by period key in quota mode.
type RecurringTask struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Area      Area           `json:"area"`
	Kind      RecurrenceKind `json:"kind"`
	Times     int            `json:"times"`
	WeekDays  []int          `json:"weekDays,omitempty"`  // 0=Sunday .. 6=Saturday
	MonthDays []int          `json:"monthDays,omitempty"` // 1..31
	YearDates []string       `json:"yearDates,omitempty"` // "MM-DD"
	Note      string         `json:"note,omitempty"`
	DoneLog   map[string]int `json:"doneLog"`
}

// AntiHabit is a behavior to resist on a weekly, seeded schedule.
type AntiHabit struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Area      Area            `json:"area"`
	Intensity int             `json:"intensity"` // target resist days per week, 1..7
	Note      string          `json:"note,omitempty"`
	DoneLog   map[string]bool `json:"doneLog"`
}

// ReminderOrigin distinguishes hand-added reminders from calendar-derived ones.
type ReminderOrigin string

const (
	OriginManual   ReminderOrigin = "manual"
	OriginCalendar ReminderOrigin = "calendar"
)

// QuickReminder is a one-shot item, optionally due on a date.
type QuickReminder struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Area      Area           `json:"area"`
	CreatedAt string         `json:"createdAt,omitempty"`
	DueDate   string         `json:"dueDateISO,omitempty"`
	Origin    ReminderOrigin `json:"origin"`
	FromEvent bool           `json:"fromEvent,omitempty"`
	EventID   string         `json:"eventId,omitempty"`
	Time      string         `json:"time,omitempty"`
}

var yearDateRe = regexp.MustCompile(`^\d{2}-\d{2}$`)

// ClampInt bounds n to [lo, hi].
func ClampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// SanitizeRecurring clamps a recurring task into its valid shape. Unknown
// kinds fall back to weekly; invalid due-computation input can therefore
// never occur.
func SanitizeRecurring(r RecurringTask) RecurringTask {
	r.Title = strings.TrimSpace(r.Title)
	if !r.Kind.IsValid() {
		r.Kind = KindWeekly
	}
	r.Times = ClampInt(r.Times, MinTimes, MaxTimes)
	r.Area = NormalizeArea(r.Area, AreaProductivity)
	r.WeekDays = dedupeInts(r.WeekDays, 0, 6)
	r.MonthDays = dedupeInts(r.MonthDays, 1, 31)
	r.YearDates = dedupeYearDates(r.YearDates)
	r.Note = clampNote(r.Note)
	if r.DoneLog == nil {
		r.DoneLog = map[string]int{}
	}
	return r
}

// SanitizeAntiHabit clamps an anti-habit into its valid shape. A blank title
// is the caller's signal to reject the whole item.
func SanitizeAntiHabit(b AntiHabit) AntiHabit {
	b.Title = strings.TrimSpace(b.Title)
	b.Area = NormalizeArea(b.Area, AreaWellbeing)
	b.Intensity = ClampInt(b.Intensity, MinIntensity, MaxIntensity)
	b.Note = clampNote(b.Note)
	if b.DoneLog == nil {
		b.DoneLog = map[string]bool{}
	}
	return b
}

func dedupeInts(in []int, lo, hi int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := map[int]bool{}
	out := make([]int, 0, len(in))
	for _, n := range in {
		if n < lo || n > hi || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Ints(out)
	return out
}

func dedupeYearDates(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !yearDateRe.MatchString(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func clampNote(note string) string {
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLen {
		note = note[:maxNoteLen]
	}
	return note
}
