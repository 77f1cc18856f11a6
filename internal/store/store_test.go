package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LifeXP-create/LifeXP/internal/model"
)

func TestLoad_MissingFileSeedsDefaults(t *testing.T) {
	s, err := Open(t.TempDir(), 0, nil)
	require.NoError(t, err)

	snap := s.Load()
	assert.Equal(t, 1, snap.Profile.Level)
	assert.Equal(t, 0, snap.Profile.XP)
	assert.Empty(t, snap.Quests)
	assert.Equal(t, model.DefaultWeeklyGoals[model.AreaWellbeing], snap.WeeklyGoals[model.AreaWellbeing])
}

func TestLoad_CorruptFileSeedsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{broken"), 0o644))

	s, err := Open(dir, 0, nil)
	require.NoError(t, err)

	snap := s.Load()
	assert.Equal(t, 1, snap.Profile.Level)
}

func TestLoad_FoldsOverflowingXPIntoLevels(t *testing.T) {
	dir := t.TempDir()
	stored := `{
  "profile": {"name": "Mira", "level": 1, "xp": 100},
  "areas": {"Body": {"level": 1, "xp": 35}}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte(stored), 0o644))

	s, err := Open(dir, 0, nil)
	require.NoError(t, err)

	snap := s.Load()
	// 100 XP carries level 1 through thresholds 10+20+30+40.
	assert.Equal(t, 5, snap.Profile.Level)
	assert.Equal(t, 0, snap.Profile.XP)
	assert.Equal(t, 3, snap.Areas[model.AreaBody].Level)
	assert.Equal(t, 5, snap.Areas[model.AreaBody].XP)
}

func TestSaveFlushRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, time.Hour, nil) // long debounce: only Flush writes
	require.NoError(t, err)

	snap := model.NewSnapshot()
	snap.Streak = 9
	snap.LastReset = "2025-01-02"
	snap.Recurring = []model.RecurringTask{{ID: "r1", Title: "run", Kind: model.KindWeekly, Times: 3}}

	s.Save(snap)
	_, statErr := os.Stat(filepath.Join(dir, "state.json"))
	assert.True(t, os.IsNotExist(statErr), "debounced write must not hit disk immediately")

	require.NoError(t, s.Flush())

	loaded := s.Load()
	assert.Equal(t, 9, loaded.Streak)
	assert.Equal(t, "2025-01-02", loaded.LastReset)
	require.Len(t, loaded.Recurring, 1)
	assert.Equal(t, "run", loaded.Recurring[0].Title)
}

func TestDebouncedWriteFires(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 20*time.Millisecond, nil)
	require.NoError(t, err)

	snap := model.NewSnapshot()
	snap.Streak = 3
	s.Save(snap)
	snap.Streak = 4
	s.Save(snap) // resets the timer; only the latest state lands

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "state.json"))
		return err == nil
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 4, s.Load().Streak)
}

func TestCloseFlushesPending(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, time.Hour, nil)
	require.NoError(t, err)

	snap := model.NewSnapshot()
	snap.Streak = 2
	s.Save(snap)
	require.NoError(t, s.Close())

	s2, err := Open(dir, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s2.Load().Streak)

	// Saves after Close are dropped silently.
	snap.Streak = 99
	s.Save(snap)
	require.NoError(t, s.Flush())
	assert.Equal(t, 2, s2.Load().Streak)
}
