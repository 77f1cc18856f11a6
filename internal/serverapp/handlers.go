package serverapp

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/quest"
	"github.com/LifeXP-create/LifeXP/internal/state"
)

// QuestHelper asks an assistant for coaching on a single quest.
type QuestHelper interface {
	Help(ctx context.Context, action quest.HelpAction, q model.DailyQuest, profile quest.ProfileSummary) (quest.HelpResult, error)
}

type Handler struct {
	svc    *state.Service
	help   QuestHelper
	logger *log.Logger
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// subPath splits "/api/<resource>/{id}[/action]" into its tail parts.
func subPath(r *http.Request, prefix string) []string {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if tail == "" {
		return nil
	}
	return strings.Split(tail, "/")
}

// GET /api/state
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	writeJSON(w, 200, h.svc.State(r.Context()))
}

// GET /api/due
func (h *Handler) Due(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	h.svc.CheckDay(r.Context())
	recurringDue, habitsDue := h.svc.DueToday()
	writeJSON(w, 200, map[string]any{
		"recurring":  recurringDue,
		"antiHabits": habitsDue,
	})
}

// POST /api/day/check
func (h *Handler) CheckDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	rolled := h.svc.CheckDay(r.Context())
	writeJSON(w, 200, map[string]any{"rolled": rolled})
}

// POST /api/quests/complete
func (h *Handler) CompleteQuest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &in); err != nil || strings.TrimSpace(in.ID) == "" {
		writeErr(w, 400, "bad json")
		return
	}
	q, planet, ok := h.svc.CompleteQuest(in.ID)
	if !ok {
		writeErr(w, 404, "quest not found or already done")
		return
	}
	resp := map[string]any{"ok": true, "quest": q}
	if planet != nil {
		resp["planet"] = planet
	}
	writeJSON(w, 200, resp)
}

// POST /api/quests/rate
func (h *Handler) RateQuest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in struct {
		ID     string           `json:"id"`
		Action quest.RateAction `json:"action"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if !in.Action.IsValid() {
		writeErr(w, 400, "unknown action")
		return
	}
	h.svc.RateQuest(in.ID, in.Action)
	writeJSON(w, 200, map[string]any{"ok": true})
}

// POST /api/quests/help
func (h *Handler) QuestHelp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	if h.help == nil {
		writeErr(w, 503, "quest help is not configured")
		return
	}
	var in struct {
		ID     string           `json:"id"`
		Action quest.HelpAction `json:"action"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if !in.Action.IsValid() {
		writeErr(w, 400, "unknown action")
		return
	}

	snap := h.svc.State(r.Context())
	var target *model.DailyQuest
	for i := range snap.Quests {
		if snap.Quests[i].ID == in.ID {
			target = &snap.Quests[i]
			break
		}
	}
	if target == nil {
		writeErr(w, 404, "quest not found")
		return
	}

	req := quest.BuildRequest(&snap, snap.LastReset)
	res, err := h.help.Help(r.Context(), in.Action, *target, req.Profile)
	if err != nil {
		h.logger.Printf("quest help failed: %v", err)
		writeErr(w, 502, "quest help unavailable")
		return
	}
	writeJSON(w, 200, res)
}

// /api/recurring  (collection)
func (h *Handler) RecurringRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.svc.State(r.Context()).Recurring)
	case http.MethodPost:
		var in model.RecurringTask
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		t, ok := h.svc.AddRecurring(in)
		if !ok {
			writeErr(w, 400, "title is required")
			return
		}
		writeJSON(w, 201, t)
	default:
		writeErr(w, 405, "method not allowed")
	}
}

// /api/recurring/{id} and /api/recurring/{id}/complete
func (h *Handler) RecurringSub(w http.ResponseWriter, r *http.Request) {
	parts := subPath(r, "/api/recurring/")
	if len(parts) == 0 {
		writeErr(w, 404, "not found")
		return
	}
	id := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodPatch, http.MethodPut:
			var in model.RecurringTask
			if err := decodeJSON(r, &in); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			if !h.svc.UpdateRecurring(id, in) {
				writeErr(w, 404, "not found")
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true})
		case http.MethodDelete:
			if !h.svc.RemoveRecurring(id) {
				writeErr(w, 404, "not found")
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true})
		default:
			writeErr(w, 405, "method not allowed")
		}
		return
	}

	if len(parts) == 2 && parts[1] == "complete" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		if !h.svc.CompleteRecurring(id) {
			writeErr(w, 404, "not found")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return
	}

	writeErr(w, 404, "not found")
}

// /api/antihabits  (collection)
func (h *Handler) AntiHabitsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.svc.State(r.Context()).Habits)
	case http.MethodPost:
		var in model.AntiHabit
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		b, ok := h.svc.AddAntiHabit(in)
		if !ok {
			writeErr(w, 400, "title is required")
			return
		}
		writeJSON(w, 201, b)
	default:
		writeErr(w, 405, "method not allowed")
	}
}

// /api/antihabits/{id} and /api/antihabits/{id}/complete
func (h *Handler) AntiHabitsSub(w http.ResponseWriter, r *http.Request) {
	parts := subPath(r, "/api/antihabits/")
	if len(parts) == 0 {
		writeErr(w, 404, "not found")
		return
	}
	id := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodPatch, http.MethodPut:
			var in model.AntiHabit
			if err := decodeJSON(r, &in); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			if !h.svc.UpdateAntiHabit(id, in) {
				writeErr(w, 404, "not found")
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true})
		case http.MethodDelete:
			if !h.svc.RemoveAntiHabit(id) {
				writeErr(w, 404, "not found")
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true})
		default:
			writeErr(w, 405, "method not allowed")
		}
		return
	}

	if len(parts) == 2 && parts[1] == "complete" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		if !h.svc.CompleteAntiHabit(id) {
			writeErr(w, 404, "not found")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return
	}

	writeErr(w, 404, "not found")
}

// /api/reminders  (collection)
func (h *Handler) RemindersRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.svc.State(r.Context()).Reminders)
	case http.MethodPost:
		var in struct {
			Title   string     `json:"title"`
			Area    model.Area `json:"area"`
			DueDate string     `json:"dueDateISO"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		rem, ok := h.svc.AddReminder(in.Title, in.Area, in.DueDate, model.OriginManual)
		if !ok {
			writeErr(w, 400, "title and valid due date are required")
			return
		}
		writeJSON(w, 201, rem)
	default:
		writeErr(w, 405, "method not allowed")
	}
}

// /api/reminders/{id} and /api/reminders/{id}/complete
func (h *Handler) RemindersSub(w http.ResponseWriter, r *http.Request) {
	parts := subPath(r, "/api/reminders/")
	if len(parts) == 0 {
		writeErr(w, 404, "not found")
		return
	}
	id := parts[0]

	if len(parts) == 1 && r.Method == http.MethodDelete {
		if !h.svc.RemoveReminder(id) {
			writeErr(w, 404, "not found")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return
	}
	if len(parts) == 2 && parts[1] == "complete" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		if !h.svc.CompleteReminder(id) {
			writeErr(w, 404, "not found")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return
	}

	writeErr(w, 405, "method not allowed")
}

// /api/todos  (collection)
func (h *Handler) TodosRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.svc.State(r.Context()).Todos)
	case http.MethodPost:
		var in struct {
			Title string `json:"title"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		todo, ok := h.svc.AddTodo(in.Title)
		if !ok {
			writeErr(w, 400, "title is required")
			return
		}
		writeJSON(w, 201, todo)
	default:
		writeErr(w, 405, "method not allowed")
	}
}

// /api/todos/{id} and /api/todos/{id}/toggle
func (h *Handler) TodosSub(w http.ResponseWriter, r *http.Request) {
	parts := subPath(r, "/api/todos/")
	if len(parts) == 0 {
		writeErr(w, 404, "not found")
		return
	}
	id := parts[0]

	if len(parts) == 1 && r.Method == http.MethodDelete {
		if !h.svc.RemoveTodo(id) {
			writeErr(w, 404, "not found")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return
	}
	if len(parts) == 2 && parts[1] == "toggle" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		if !h.svc.ToggleTodo(id) {
			writeErr(w, 404, "not found")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return
	}

	writeErr(w, 405, "method not allowed")
}

// /api/events  (collection)
func (h *Handler) EventsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.svc.State(r.Context()).Events)
	case http.MethodPost:
		var in struct {
			Date  string      `json:"date"`
			Event model.Event `json:"event"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		ev, ok := h.svc.AddEvent(in.Date, in.Event)
		if !ok {
			writeErr(w, 400, "title is required")
			return
		}
		writeJSON(w, 201, ev)
	default:
		writeErr(w, 405, "method not allowed")
	}
}

// /api/events/{id} and /api/events/{id}/move
func (h *Handler) EventsSub(w http.ResponseWriter, r *http.Request) {
	parts := subPath(r, "/api/events/")
	if len(parts) == 0 {
		writeErr(w, 404, "not found")
		return
	}
	id := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodPatch, http.MethodPut:
			var in struct {
				Date  string      `json:"date"`
				Event model.Event `json:"event"`
			}
			if err := decodeJSON(r, &in); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			if !h.svc.UpdateEvent(in.Date, id, in.Event) {
				writeErr(w, 404, "not found")
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true})
		case http.MethodDelete:
			date := strings.TrimSpace(r.URL.Query().Get("date"))
			if !h.svc.RemoveEvent(date, id) {
				writeErr(w, 404, "not found")
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true})
		default:
			writeErr(w, 405, "method not allowed")
		}
		return
	}

	if len(parts) == 2 && parts[1] == "move" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		var in struct {
			From  string      `json:"from"`
			To    string      `json:"to"`
			Event model.Event `json:"event"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if !h.svc.MoveEvent(in.From, in.To, id, in.Event) {
			writeErr(w, 404, "not found")
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return
	}

	writeErr(w, 404, "not found")
}

// PUT /api/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in model.Profile
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	writeJSON(w, 200, h.svc.UpdateProfile(in))
}

// PUT /api/settings/reminders
func (h *Handler) ReminderSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in model.ReminderSettings
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	h.svc.SetReminderSettings(in)
	writeJSON(w, 200, map[string]any{"ok": true})
}

// PUT /api/goals/weekly
func (h *Handler) WeeklyGoals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in map[model.Area]int
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	h.svc.SetWeeklyGoals(in)
	writeJSON(w, 200, h.svc.State(r.Context()).WeeklyGoals)
}
