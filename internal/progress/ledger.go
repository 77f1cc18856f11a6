// Package progress holds the leveling curve, the XP accumulator, and the
// day-keyed history aggregate.
package progress

import (
	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/period"
)

// XPPerLevelStep is the linear curve coefficient: level L requires 10*L XP.
const XPPerLevelStep = 10

// RequiredXPForLevel returns the XP threshold to leave the given level.
func RequiredXPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return XPPerLevelStep * level
}

// AddXP adds amount to the profile and cascades level-ups: a single large
// gain can climb multiple levels in one call. Negative amounts are ignored.
// Postcondition: XP < RequiredXPForLevel(Level).
func AddXP(p model.Profile, amount int) model.Profile {
	if amount < 0 {
		amount = 0
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.XP < 0 {
		p.XP = 0
	}
	p.XP += amount
	for p.XP >= RequiredXPForLevel(p.Level) {
		p.XP -= RequiredXPForLevel(p.Level)
		p.Level++
	}
	return p
}

// NormalizeProfile repairs a profile loaded from storage whose XP exceeds
// its level threshold, e.g. after a curve change. It never decreases the
// level, never leaves XP negative, and is idempotent.
func NormalizeProfile(p model.Profile) model.Profile {
	return AddXP(p, 0)
}

// NormalizeSnapshot applies the same repair to the profile and every area
// entry of a loaded snapshot. It lives here rather than on the snapshot so
// the model stays free of curve arithmetic.
func NormalizeSnapshot(s *model.Snapshot) {
	if s == nil {
		return
	}
	s.Profile = NormalizeProfile(s.Profile)
	for area, ap := range s.Areas {
		s.Areas[area] = AddAreaXP(ap, 0)
	}
}

// AddAreaXP applies the same cascading curve to a per-area progress entry.
func AddAreaXP(ap model.AreaProgress, amount int) model.AreaProgress {
	if amount < 0 {
		amount = 0
	}
	if ap.Level < 1 {
		ap.Level = 1
	}
	if ap.XP < 0 {
		ap.XP = 0
	}
	ap.XP += amount
	for ap.XP >= RequiredXPForLevel(ap.Level) {
		ap.XP -= RequiredXPForLevel(ap.Level)
		ap.Level++
	}
	return ap
}

// RecordHistoryCompletion bumps the day's aggregate: one completion, the XP
// gained, and the per-area counter. The day entry is created when absent.
func RecordHistoryCompletion(history map[string]model.HistoryDay, area model.Area, amount int, dateISO string) {
	if history == nil || !period.IsISODate(dateISO) {
		return
	}
	day := history[dateISO]
	if day.PerArea == nil {
		day.PerArea = map[model.Area]int{}
	}
	day.Completed++
	day.XP += amount
	day.PerArea[area]++
	history[dateISO] = day
}

// DaySummary is one entry of the rolling history summary sent to the quest
// generator.
type DaySummary struct {
	DateISO   string             `json:"dateISO"`
	Completed int                `json:"completed"`
	XP        int                `json:"xp"`
	PerArea   map[model.Area]int `json:"perArea"`
}

// HistorySummary collects up to days entries ending at endISO, newest first,
// skipping days with no record.
func HistorySummary(history map[string]model.HistoryDay, endISO string, days int) []DaySummary {
	end, err := period.Parse(endISO)
	if err != nil {
		return nil
	}
	out := make([]DaySummary, 0, days)
	for i := 0; i < days; i++ {
		iso := period.Format(end.AddDate(0, 0, -i))
		day, ok := history[iso]
		if !ok {
			continue
		}
		out = append(out, DaySummary{
			DateISO:   iso,
			Completed: day.Completed,
			XP:        day.XP,
			PerArea:   day.PerArea,
		})
	}
	return out
}

// HadCompletionOn reports whether the given day recorded at least one
// completion.
func HadCompletionOn(history map[string]model.HistoryDay, dateISO string) bool {
	return history[dateISO].Completed > 0
}
