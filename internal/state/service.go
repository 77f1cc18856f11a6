// Package state owns the in-memory canonical snapshot and serializes every
// mutation behind one lock, replacing the original app's ambient global
// store with an explicit holder the engines operate on.
package state

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LifeXP-create/LifeXP/internal/antihabit"
	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/period"
	"github.com/LifeXP-create/LifeXP/internal/progress"
	"github.com/LifeXP-create/LifeXP/internal/quest"
	"github.com/LifeXP-create/LifeXP/internal/recurrence"
	"github.com/LifeXP-create/LifeXP/internal/reward"
	"github.com/LifeXP-create/LifeXP/internal/store"
)

// Saver receives the snapshot after every mutation. *store.Store satisfies
// it; tests plug in lighter fakes.
type Saver interface {
	Save(*model.Snapshot)
}

type Options struct {
	Store      Saver
	Reconciler *quest.Reconciler
	Clock      period.Clock
	Logger     *log.Logger
	// Rand drives reward rolls; defaults to a time-seeded source.
	Rand *rand.Rand
}

// Service is the single writer over the snapshot.
type Service struct {
	mu         sync.Mutex
	snap       *model.Snapshot
	store      Saver
	reconciler *quest.Reconciler
	clock      period.Clock
	logger     *log.Logger
	rnd        *rand.Rand
}

func NewService(snap *model.Snapshot, opts Options) *Service {
	if snap == nil {
		snap = model.NewSnapshot()
	}
	// The service trusts its maps; repair whatever the caller hands over.
	snap.Normalize()
	progress.NormalizeSnapshot(snap)
	if opts.Clock == nil {
		opts.Clock = period.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Reconciler == nil {
		opts.Reconciler = quest.NewReconciler(nil)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		snap:       snap,
		store:      opts.Store,
		reconciler: opts.Reconciler,
		clock:      opts.Clock,
		logger:     opts.Logger,
		rnd:        opts.Rand,
	}
}

func (s *Service) save() {
	if s.store != nil {
		s.store.Save(s.snap)
	}
}

func (s *Service) today() string {
	return period.Today(s.clock)
}

// CheckDay runs the day-boundary check: if the quest list is stale it
// replaces it and settles the streak. Safe to call on every foreground or
// state read.
func (s *Service) CheckDay(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.reconciler.EnsureDaily(ctx, s.snap, s.today())
	if changed {
		s.save()
	}
	return changed
}

// State returns a deep copy of the snapshot after running the day-boundary
// check.
func (s *Service) State(ctx context.Context) model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconciler.EnsureDaily(ctx, s.snap, s.today()) {
		s.save()
	}
	return cloneSnapshot(s.snap)
}

// DueToday lists today's due recurring obligations and anti-habits.
func (s *Service) DueToday() ([]recurrence.DueItem, []antihabit.DueItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today()
	return recurrence.DueObligations(today, s.snap.Recurring),
		antihabit.DueHabits(today, s.snap.Habits)
}

// ---- Daily quests ----

// CompleteQuest marks a daily quest done, grants XP, records history, and
// may drop a reward planet for the quest's area.
func (s *Service) CompleteQuest(id string) (model.DailyQuest, *model.Planet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	q, ok := s.reconciler.CompleteQuest(s.snap, id, today)
	if !ok {
		return model.DailyQuest{}, nil, false
	}
	planet, dropped := reward.MaybeDrop(s.snap, s.rnd, q.Area, today, s.clock.Now())
	s.save()
	if !dropped {
		return q, nil, true
	}
	return q, &planet, true
}

func (s *Service) RateQuest(id string, action quest.RateAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciler.RateQuest(s.snap, id, action)
	s.save()
}

// ---- Recurring tasks ----

func (s *Service) AddRecurring(t model.RecurringTask) (model.RecurringTask, bool) {
	t = model.SanitizeRecurring(t)
	if t.Title == "" {
		return model.RecurringTask{}, false
	}
	if t.ID == "" {
		t.ID = "r_" + uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Recurring = append(s.snap.Recurring, t)
	s.save()
	return t, true
}

func (s *Service) UpdateRecurring(id string, patch model.RecurringTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.snap.Recurring {
		if r.ID != id {
			continue
		}
		patch.ID = id
		patch.DoneLog = r.DoneLog
		next := model.SanitizeRecurring(patch)
		if next.Title == "" {
			next.Title = r.Title
		}
		s.snap.Recurring[i] = next
		s.save()
		return true
	}
	return false
}

func (s *Service) RemoveRecurring(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.snap.Recurring {
		if r.ID == id {
			s.snap.Recurring = append(s.snap.Recurring[:i], s.snap.Recurring[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// CompleteRecurring records today's completion for the task and grants the
// completion XP.
func (s *Service) CompleteRecurring(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	for i, r := range s.snap.Recurring {
		if r.ID != id {
			continue
		}
		s.snap.Recurring[i] = recurrence.RecordCompletion(r, today)
		s.grantLocked(r.Area, today)
		s.save()
		return true
	}
	return false
}

// ---- Anti-habits ----

func (s *Service) AddAntiHabit(b model.AntiHabit) (model.AntiHabit, bool) {
	b = model.SanitizeAntiHabit(b)
	if b.Title == "" {
		return model.AntiHabit{}, false
	}
	if b.ID == "" {
		b.ID = "b_" + uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Habits = append(s.snap.Habits, b)
	s.save()
	return b, true
}

func (s *Service) UpdateAntiHabit(id string, patch model.AntiHabit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.snap.Habits {
		if b.ID != id {
			continue
		}
		patch.ID = id
		patch.DoneLog = b.DoneLog
		next := model.SanitizeAntiHabit(patch)
		if next.Title == "" {
			next.Title = b.Title
		}
		s.snap.Habits[i] = next
		s.save()
		return true
	}
	return false
}

func (s *Service) RemoveAntiHabit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.snap.Habits {
		if b.ID == id {
			s.snap.Habits = append(s.snap.Habits[:i], s.snap.Habits[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// CompleteAntiHabit marks today's resist as done and grants the completion
// XP.
func (s *Service) CompleteAntiHabit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	for i, b := range s.snap.Habits {
		if b.ID != id {
			continue
		}
		s.snap.Habits[i] = antihabit.RecordCompletion(b, today)
		s.grantLocked(b.Area, today)
		s.save()
		return true
	}
	return false
}

// grantLocked applies a single completion's XP and history bookkeeping.
// Callers hold the lock.
func (s *Service) grantLocked(area model.Area, today string) {
	gain := s.reconciler.CompletionXP
	area = model.NormalizeArea(area, model.AreaProductivity)
	s.snap.Profile = progress.AddXP(s.snap.Profile, gain)
	s.snap.Areas[area] = progress.AddAreaXP(s.snap.Areas[area], gain)
	progress.RecordHistoryCompletion(s.snap.History, area, gain, today)
}

// ---- Quick reminders ----

func (s *Service) AddReminder(title string, area model.Area, dueDateISO string, origin model.ReminderOrigin) (model.QuickReminder, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.QuickReminder{}, false
	}
	if !period.IsISODate(dueDateISO) {
		dueDateISO = ""
	}
	if origin != model.OriginCalendar {
		origin = model.OriginManual
	}

	r := model.QuickReminder{
		ID:        "qq_" + uuid.NewString(),
		Title:     title,
		Area:      model.NormalizeArea(area, model.AreaProductivity),
		CreatedAt: s.clock.Now().UTC().Format(time.RFC3339),
		DueDate:   dueDateISO,
		Origin:    origin,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Reminders = append([]model.QuickReminder{r}, s.snap.Reminders...)
	s.save()
	return r, true
}

// CompleteReminder removes the reminder and grants the completion XP.
func (s *Service) CompleteReminder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.snap.Reminders {
		if r.ID != id {
			continue
		}
		s.snap.Reminders = append(s.snap.Reminders[:i], s.snap.Reminders[i+1:]...)
		s.grantLocked(r.Area, s.today())
		s.save()
		return true
	}
	return false
}

func (s *Service) RemoveReminder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.snap.Reminders {
		if r.ID == id {
			s.snap.Reminders = append(s.snap.Reminders[:i], s.snap.Reminders[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// ---- Todos ----

func (s *Service) AddTodo(title string) (model.Todo, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, false
	}
	t := model.Todo{ID: "t_" + uuid.NewString(), Title: title}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Todos = append(s.snap.Todos, t)
	s.save()
	return t, true
}

func (s *Service) ToggleTodo(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.snap.Todos {
		if t.ID == id {
			s.snap.Todos[i].Done = !t.Done
			s.save()
			return true
		}
	}
	return false
}

func (s *Service) RemoveTodo(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.snap.Todos {
		if t.ID == id {
			s.snap.Todos = append(s.snap.Todos[:i], s.snap.Todos[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// ---- Settings ----

func (s *Service) SetWeeklyGoals(goals map[model.Area]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for a, n := range goals {
		if !a.IsValid() || n < 0 {
			continue
		}
		s.snap.WeeklyGoals[a] = n
	}
	s.save()
}

func (s *Service) SetReminderSettings(r model.ReminderSettings) {
	r.Hour = model.ClampInt(r.Hour, 0, 23)
	r.Minute = model.ClampInt(r.Minute, 0, 59)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Reminder = r
	s.save()
}

func (s *Service) UpdateProfile(p model.Profile) model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(p.Name) == "" {
		p.Name = s.snap.Profile.Name
	}
	// Leveling state stays authoritative; edits only touch identity fields.
	p.Level = s.snap.Profile.Level
	p.XP = s.snap.Profile.XP
	s.snap.Profile = progress.NormalizeProfile(p)
	s.save()
	return s.snap.Profile
}

func cloneSnapshot(s *model.Snapshot) model.Snapshot {
	b, err := json.Marshal(s)
	if err != nil {
		return *s
	}
	var out model.Snapshot
	if err := json.Unmarshal(b, &out); err != nil {
		return *s
	}
	return out
}

var _ Saver = (*store.Store)(nil)
