package serverapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/period"
	"github.com/LifeXP-create/LifeXP/internal/quest"
	"github.com/LifeXP-create/LifeXP/internal/state"
)

type noopSaver struct{}

func (noopSaver) Save(*model.Snapshot) {}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, quest.Request) ([]quest.Proposal, error) {
	return nil, errors.New("unreachable")
}

type stubHelper struct {
	res quest.HelpResult
	err error
}

func (s stubHelper) Help(_ context.Context, _ quest.HelpAction, _ model.DailyQuest, _ quest.ProfileSummary) (quest.HelpResult, error) {
	return s.res, s.err
}

func newTestHandler(t *testing.T, snap *model.Snapshot, helper QuestHelper) http.Handler {
	t.Helper()
	clock := period.NewFakeClock(time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC))
	svc := state.NewService(snap, state.Options{
		Store:      noopSaver{},
		Reconciler: quest.NewReconciler(failingGenerator{}),
		Clock:      clock,
		Rand:       rand.New(rand.NewSource(1)),
	})
	h, err := NewHandler(Options{
		Service: svc,
		Help:    helper,
		Logger:  log.New(bytes.NewBuffer(nil), "", 0),
	})
	require.NoError(t, err)
	return h
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, model.NewSnapshot(), nil)

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var got map[string]any
	decodeBody(t, rec, &got)
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "lifexp", got["service"])
}

func TestStateRunsDayBoundary(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-01"
	h := newTestHandler(t, snap, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Snapshot
	decodeBody(t, rec, &got)
	assert.Equal(t, "2025-01-02", got.LastReset)
	assert.Len(t, got.Quests, 5)
}

func TestCompleteQuestEndpoint(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-02"
	snap.Quests = []model.DailyQuest{{ID: "q1", Title: "walk", Area: model.AreaBody}}
	h := newTestHandler(t, snap, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/quests/complete", map[string]string{"id": "q1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		OK    bool             `json:"ok"`
		Quest model.DailyQuest `json:"quest"`
	}
	decodeBody(t, rec, &got)
	assert.True(t, got.OK)
	assert.True(t, got.Quest.Done)

	// Second completion is rejected.
	rec = doJSON(t, h, http.MethodPost, "/api/quests/complete", map[string]string{"id": "q1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/quests/complete", map[string]string{"id": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateQuestEndpoint(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-02"
	snap.Quests = []model.DailyQuest{{ID: "q1", Title: "walk", Area: model.AreaBody}}
	h := newTestHandler(t, snap, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/quests/rate", map[string]string{"id": "q1", "action": "like"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Snapshot
	decodeBody(t, doJSON(t, h, http.MethodGet, "/api/state", nil), &got)
	assert.InDelta(t, 2.2, got.Prefs.AreaDifficulty[model.AreaBody], 1e-9)

	rec = doJSON(t, h, http.MethodPost, "/api/quests/rate", map[string]string{"id": "q1", "action": "meh"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuestHelpEndpoint(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-02"
	snap.Quests = []model.DailyQuest{{ID: "q1", Title: "walk", Area: model.AreaBody}}

	helper := stubHelper{res: quest.HelpResult{
		Action: quest.HelpSteps,
		Title:  "walk",
		Area:   model.AreaBody,
		Steps:  []string{"put on shoes", "go outside"},
	}}
	h := newTestHandler(t, snap, helper)

	rec := doJSON(t, h, http.MethodPost, "/api/quests/help", map[string]string{"id": "q1", "action": "steps"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got quest.HelpResult
	decodeBody(t, rec, &got)
	assert.Len(t, got.Steps, 2)

	rec = doJSON(t, h, http.MethodPost, "/api/quests/help", map[string]string{"id": "missing", "action": "steps"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Upstream failure maps to 502.
	h = newTestHandler(t, snap, stubHelper{err: errors.New("down")})
	rec = doJSON(t, h, http.MethodPost, "/api/quests/help", map[string]string{"id": "q1", "action": "steps"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// No helper configured.
	h = newTestHandler(t, snap, nil)
	rec = doJSON(t, h, http.MethodPost, "/api/quests/help", map[string]string{"id": "q1", "action": "steps"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecurringRoutes(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-02"
	h := newTestHandler(t, snap, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/recurring", model.RecurringTask{
		Title: "journal", Kind: model.KindDaily, Times: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.RecurringTask
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, h, http.MethodPost, "/api/recurring", model.RecurringTask{Title: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/due", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var due struct {
		Recurring []json.RawMessage `json:"recurring"`
	}
	decodeBody(t, rec, &due)
	assert.Len(t, due.Recurring, 1)

	rec = doJSON(t, h, http.MethodPost, "/api/recurring/"+created.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/api/recurring/"+created.ID, model.RecurringTask{Title: "journal pm"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/recurring/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/recurring/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAntiHabitRoutes(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-02"
	h := newTestHandler(t, snap, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/antihabits", model.AntiHabit{
		Title: "doomscrolling", Intensity: 7,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.AntiHabit
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.ID)

	// Intensity 7 schedules every day of the week.
	rec = doJSON(t, h, http.MethodPost, "/api/antihabits/"+created.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/antihabits/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReminderAndTodoRoutes(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-02"
	h := newTestHandler(t, snap, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/reminders", map[string]string{
		"title": "call dentist", "area": "Body", "dueDateISO": "2025-01-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var rem model.QuickReminder
	decodeBody(t, rec, &rem)

	rec = doJSON(t, h, http.MethodPost, "/api/reminders/"+rem.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/todos", map[string]string{"title": "pack bag"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var todo model.Todo
	decodeBody(t, rec, &todo)

	rec = doJSON(t, h, http.MethodPost, "/api/todos/"+todo.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodDelete, "/api/todos/"+todo.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEventRoutes(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-02"
	h := newTestHandler(t, snap, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/events", map[string]any{
		"date":  "2025-01-03",
		"event": model.Event{Title: "standup", Start: "09:30"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ev model.Event
	decodeBody(t, rec, &ev)
	require.NotEmpty(t, ev.ID)

	// The event is mirrored into a derived reminder.
	var got model.Snapshot
	decodeBody(t, doJSON(t, h, http.MethodGet, "/api/state", nil), &got)
	require.Len(t, got.Reminders, 1)
	assert.Equal(t, "evq_"+ev.ID, got.Reminders[0].ID)

	rec = doJSON(t, h, http.MethodPost, "/api/events/"+ev.ID+"/move", map[string]any{
		"from": "2025-01-03", "to": "2025-01-04",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/events/"+ev.ID+"?date=2025-01-04", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	decodeBody(t, doJSON(t, h, http.MethodGet, "/api/state", nil), &got)
	assert.Empty(t, got.Reminders)
}

func TestSettingsRoutes(t *testing.T) {
	snap := model.NewSnapshot()
	snap.LastReset = "2025-01-02"
	h := newTestHandler(t, snap, nil)

	rec := doJSON(t, h, http.MethodPut, "/api/settings/reminders", model.ReminderSettings{
		Enabled: true, Hour: 21, Minute: 30,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/goals/weekly", map[model.Area]int{model.AreaBody: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	var goals map[model.Area]int
	decodeBody(t, rec, &goals)
	assert.Equal(t, 5, goals[model.AreaBody])

	rec = doJSON(t, h, http.MethodPut, "/api/profile", model.Profile{Name: "Mira", Level: 99})
	require.Equal(t, http.StatusOK, rec.Code)
	var prof model.Profile
	decodeBody(t, rec, &prof)
	assert.Equal(t, "Mira", prof.Name)
	assert.Equal(t, 1, prof.Level, "level stays server-authoritative")
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, model.NewSnapshot(), nil)

	rec := doJSON(t, h, http.MethodDelete, "/api/state", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/day/check", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
