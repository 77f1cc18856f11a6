package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LifeXP-create/LifeXP/internal/model"
)

func daily(id string) model.RecurringTask {
	return model.RecurringTask{ID: id, Title: id, Kind: model.KindDaily, Times: 1}
}

func TestDaily_DueUntilCompleted(t *testing.T) {
	task := daily("r1")

	due := DueObligations("2025-03-10", []model.RecurringTask{task})
	require.Len(t, due, 1)
	assert.Equal(t, DueDaily, due[0].Kind)

	task = RecordCompletion(task, "2025-03-10")
	assert.Empty(t, DueObligations("2025-03-10", []model.RecurringTask{task}))

	// Present again the next day.
	due = DueObligations("2025-03-11", []model.RecurringTask{task})
	assert.Len(t, due, 1)
}

func TestWeeklyFixed_OnlyOnScheduledWeekdays(t *testing.T) {
	task := model.RecurringTask{
		ID:       "r2",
		Title:    "gym",
		Kind:     model.KindWeekly,
		Times:    5, // irrelevant in fixed mode
		WeekDays: []int{1, 3, 5},
	}

	// 2025-03-12 is a Wednesday (3), 2025-03-11 a Tuesday (2).
	due := DueObligations("2025-03-12", []model.RecurringTask{task})
	require.Len(t, due, 1)
	assert.Equal(t, DueWeeklyFixed, due[0].Kind)

	assert.Empty(t, DueObligations("2025-03-11", []model.RecurringTask{task}))

	// A completed fixed day does not reappear; no catch-up on other days.
	task = RecordCompletion(task, "2025-03-12")
	assert.Empty(t, DueObligations("2025-03-12", []model.RecurringTask{task}))
	assert.Empty(t, DueObligations("2025-03-13", []model.RecurringTask{task}))
}

func TestWeeklyQuota_CountsDownAndClamps(t *testing.T) {
	task := model.RecurringTask{ID: "r3", Title: "run", Kind: model.KindWeekly, Times: 3}

	days := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"}
	wantRemaining := []int{3, 2, 1}

	for i, d := range days[:3] {
		due := DueObligations(d, []model.RecurringTask{task})
		require.Len(t, due, 1, "day %s", d)
		assert.Equal(t, DueWeeklyQuota, due[0].Kind)
		assert.Equal(t, wantRemaining[i], due[0].Remaining)
		task = RecordCompletion(task, d)
	}

	// Quota met: not due for the rest of the ISO week.
	assert.Empty(t, DueObligations(days[3], []model.RecurringTask{task}))

	// A 4th completion is a no-op, never pushing the counter past Times.
	task = RecordCompletion(task, days[3])
	assert.Equal(t, 3, task.DoneLog["2025-W11"])

	// Fresh ISO week, fresh quota.
	due := DueObligations("2025-03-17", []model.RecurringTask{task})
	require.Len(t, due, 1)
	assert.Equal(t, 3, due[0].Remaining)
}

func TestMonthlyFixedAndQuota(t *testing.T) {
	fixed := model.RecurringTask{ID: "m1", Title: "rent", Kind: model.KindMonthly, Times: 1, MonthDays: []int{1, 15}}
	quota := model.RecurringTask{ID: "m2", Title: "call parents", Kind: model.KindMonthly, Times: 2}

	due := DueObligations("2025-04-15", []model.RecurringTask{fixed, quota})
	require.Len(t, due, 2)
	assert.Equal(t, DueMonthlyFixed, due[0].Kind)
	assert.Equal(t, DueMonthlyQuota, due[1].Kind)

	assert.Empty(t, DueObligations("2025-04-16", []model.RecurringTask{fixed}))

	quota = RecordCompletion(quota, "2025-04-15")
	quota = RecordCompletion(quota, "2025-04-20")
	assert.Empty(t, DueObligations("2025-04-25", []model.RecurringTask{quota}))
	// New month resets the key.
	assert.Len(t, DueObligations("2025-05-01", []model.RecurringTask{quota}), 1)
}

func TestYearlyFixedAndQuota(t *testing.T) {
	fixed := model.RecurringTask{ID: "y1", Title: "birthday card", Kind: model.KindYearly, Times: 1, YearDates: []string{"06-01"}}
	quota := model.RecurringTask{ID: "y2", Title: "dentist", Kind: model.KindYearly, Times: 2}

	due := DueObligations("2025-06-01", []model.RecurringTask{fixed, quota})
	require.Len(t, due, 2)
	assert.Equal(t, DueYearlyFixed, due[0].Kind)
	assert.Equal(t, DueYearlyQuota, due[1].Kind)

	assert.Empty(t, DueObligations("2025-06-02", []model.RecurringTask{fixed}))

	quota = RecordCompletion(quota, "2025-06-01")
	due = DueObligations("2025-07-01", []model.RecurringTask{quota})
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Remaining)
}

func TestUnknownKind_SanitizedToWeekly(t *testing.T) {
	task := model.RecurringTask{ID: "r4", Title: "x", Kind: "hourly", Times: 1}
	due := DueObligations("2025-03-10", []model.RecurringTask{task})
	require.Len(t, due, 1)
	assert.Equal(t, DueWeeklyQuota, due[0].Kind)
}

func TestBadInputsAreNoOps(t *testing.T) {
	task := daily("r5")
	assert.Nil(t, DueObligations("not-a-date", []model.RecurringTask{task}))
	assert.Empty(t, DueObligations("2025-03-10", []model.RecurringTask{{Title: "no id", Kind: model.KindDaily}}))

	got := RecordCompletion(task, "nope")
	assert.Empty(t, got.DoneLog)
}
