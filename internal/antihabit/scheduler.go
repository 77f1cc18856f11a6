// Package antihabit schedules, per ISO week, the days on which a habit to
// avoid must actively be resisted.
package antihabit

import (
	"sort"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/period"
)

// ScheduledWeekdays picks the weekday indices (Sunday=0..Saturday=6) on
// which the habit is scheduled for the given ISO week. The selection is a
// pure function of (weekKey, habitID, intensity): it is recomputed on every
// call and guaranteed stable within a week.
func ScheduledWeekdays(weekKey, habitID string, intensity int) []int {
	k := model.ClampInt(intensity, model.MinIntensity, model.MaxIntensity)
	days := shuffled(7, weekKey+"::"+habitID)[:k]
	sort.Ints(days)
	return days
}

// DueItem is an anti-habit due today, phrased as the obligation the user
// actually has.
type DueItem struct {
	Habit model.AntiHabit `json:"habit"`
	Title string          `json:"title"`
}

// DueHabits returns the habits scheduled for dateISO that have not been
// resisted yet today. A habit already marked done today is excluded even on
// a scheduled day.
func DueHabits(dateISO string, habits []model.AntiHabit) []DueItem {
	day, err := period.Parse(dateISO)
	if err != nil {
		return nil
	}
	weekKey := period.ISOWeekKey(day)
	dow := period.Weekday(day)

	out := make([]DueItem, 0, len(habits))
	for _, raw := range habits {
		if raw.ID == "" {
			continue
		}
		h := model.SanitizeAntiHabit(raw)
		if h.DoneLog[dateISO] {
			continue
		}
		for _, d := range ScheduledWeekdays(weekKey, h.ID, h.Intensity) {
			if d == dow {
				out = append(out, DueItem{Habit: h, Title: "Don't do: " + h.Title})
				break
			}
		}
	}
	return out
}

// RecordCompletion marks the habit as resisted on dateISO. No quota
// semantics: a day is either resisted or it is not. The input is not
// mutated.
func RecordCompletion(h model.AntiHabit, dateISO string) model.AntiHabit {
	if !period.IsISODate(dateISO) {
		return h
	}
	h = model.SanitizeAntiHabit(h)
	log := make(map[string]bool, len(h.DoneLog)+1)
	for k, v := range h.DoneLog {
		log[k] = v
	}
	log[dateISO] = true
	h.DoneLog = log
	return h
}
