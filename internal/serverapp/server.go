package serverapp

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/LifeXP-create/LifeXP/internal/httpmw"
	"github.com/LifeXP-create/LifeXP/internal/state"
)

type Options struct {
	Service *state.Service
	// Help serves quest coaching requests. Nil disables /api/quests/help.
	Help   QuestHelper
	Logger *log.Logger
}

// NewHandler wires the API routes over a state service and wraps them in the
// standard middleware chain.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Service == nil {
		return nil, errors.New("service is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	h := &Handler{svc: opts.Service, help: opts.Help, logger: opts.Logger}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeErr(w, 405, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "lifexp",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/api/state", h.State)
	mux.HandleFunc("/api/due", h.Due)
	mux.HandleFunc("/api/day/check", h.CheckDay)

	mux.HandleFunc("/api/quests/complete", h.CompleteQuest)
	mux.HandleFunc("/api/quests/rate", h.RateQuest)
	mux.HandleFunc("/api/quests/help", h.QuestHelp)

	mux.HandleFunc("/api/recurring", h.RecurringRoot)
	mux.HandleFunc("/api/recurring/", h.RecurringSub)
	mux.HandleFunc("/api/antihabits", h.AntiHabitsRoot)
	mux.HandleFunc("/api/antihabits/", h.AntiHabitsSub)

	mux.HandleFunc("/api/reminders", h.RemindersRoot)
	mux.HandleFunc("/api/reminders/", h.RemindersSub)
	mux.HandleFunc("/api/todos", h.TodosRoot)
	mux.HandleFunc("/api/todos/", h.TodosSub)
	mux.HandleFunc("/api/events", h.EventsRoot)
	mux.HandleFunc("/api/events/", h.EventsSub)

	mux.HandleFunc("/api/profile", h.Profile)
	mux.HandleFunc("/api/settings/reminders", h.ReminderSettings)
	mux.HandleFunc("/api/goals/weekly", h.WeeklyGoals)

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}
