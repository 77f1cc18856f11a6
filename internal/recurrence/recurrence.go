// Package recurrence decides which recurring tasks are due on a given day
// and records completions against their per-period logs.
package recurrence

import (
	"time"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/period"
)

// DueKind tags why an item is due today.
type DueKind string

const (
	DueDaily        DueKind = "daily"
	DueWeeklyFixed  DueKind = "weekly_fixed"
	DueWeeklyQuota  DueKind = "weekly_quota"
	DueMonthlyFixed DueKind = "monthly_fixed"
	DueMonthlyQuota DueKind = "monthly_quota"
	DueYearlyFixed  DueKind = "yearly_fixed"
	DueYearlyQuota  DueKind = "yearly_quota"
)

// DueItem is a recurring task annotated with its due reason. Remaining is
// only meaningful for quota kinds.
type DueItem struct {
	Task      model.RecurringTask `json:"task"`
	Kind      DueKind             `json:"dueKind"`
	Remaining int                 `json:"remaining,omitempty"`
}

// DueObligations returns the recurring tasks due on dateISO, in input order.
// Tasks with an empty id and dates that do not parse yield nothing.
func DueObligations(dateISO string, tasks []model.RecurringTask) []DueItem {
	day, err := period.Parse(dateISO)
	if err != nil {
		return nil
	}

	out := make([]DueItem, 0, len(tasks))
	for _, raw := range tasks {
		if raw.ID == "" {
			continue
		}
		t := model.SanitizeRecurring(raw)
		if item, due := dueFor(t, dateISO, day); due {
			out = append(out, item)
		}
	}
	return out
}

func dueFor(t model.RecurringTask, dateISO string, day time.Time) (DueItem, bool) {
	switch t.Kind {
	case model.KindDaily:
		if t.DoneLog[dateISO] == 0 {
			return DueItem{Task: t, Kind: DueDaily}, true
		}

	case model.KindWeekly:
		if len(t.WeekDays) > 0 {
			if containsInt(t.WeekDays, period.Weekday(day)) && t.DoneLog[dateISO] == 0 {
				return DueItem{Task: t, Kind: DueWeeklyFixed}, true
			}
			return DueItem{}, false
		}
		return quotaDue(t, period.ISOWeekKey(day), DueWeeklyQuota)

	case model.KindMonthly:
		if len(t.MonthDays) > 0 {
			if containsInt(t.MonthDays, day.Day()) && t.DoneLog[dateISO] == 0 {
				return DueItem{Task: t, Kind: DueMonthlyFixed}, true
			}
			return DueItem{}, false
		}
		return quotaDue(t, period.MonthKey(day), DueMonthlyQuota)

	case model.KindYearly:
		if len(t.YearDates) > 0 {
			if containsString(t.YearDates, period.MonthDayKey(day)) && t.DoneLog[dateISO] == 0 {
				return DueItem{Task: t, Kind: DueYearlyFixed}, true
			}
			return DueItem{}, false
		}
		return quotaDue(t, period.YearKey(day), DueYearlyQuota)
	}
	return DueItem{}, false
}

func quotaDue(t model.RecurringTask, key string, kind DueKind) (DueItem, bool) {
	done := t.DoneLog[key]
	if done >= t.Times {
		return DueItem{}, false
	}
	return DueItem{Task: t, Kind: kind, Remaining: t.Times - done}, true
}

// RecordCompletion marks the task complete for dateISO: fixed mode flags the
// exact date, quota mode increments the period counter clamped to Times.
// Completions past the quota are silent no-ops. The returned task carries
// the updated log; the input is not mutated.
func RecordCompletion(t model.RecurringTask, dateISO string) model.RecurringTask {
	day, err := period.Parse(dateISO)
	if err != nil {
		return t
	}

	t = model.SanitizeRecurring(t)
	log := make(map[string]int, len(t.DoneLog)+1)
	for k, v := range t.DoneLog {
		log[k] = v
	}

	switch t.Kind {
	case model.KindDaily:
		log[dateISO] = 1
	case model.KindWeekly:
		if len(t.WeekDays) > 0 {
			log[dateISO] = 1
		} else {
			bump(log, period.ISOWeekKey(day), t.Times)
		}
	case model.KindMonthly:
		if len(t.MonthDays) > 0 {
			log[dateISO] = 1
		} else {
			bump(log, period.MonthKey(day), t.Times)
		}
	case model.KindYearly:
		if len(t.YearDates) > 0 {
			log[dateISO] = 1
		} else {
			bump(log, period.YearKey(day), t.Times)
		}
	}

	t.DoneLog = log
	return t
}

func bump(log map[string]int, key string, times int) {
	if log[key] < times {
		log[key]++
	}
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
