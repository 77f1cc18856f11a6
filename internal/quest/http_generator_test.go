package quest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LifeXP-create/LifeXP/internal/model"
)

func TestHTTPGenerator_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/daily-quests", r.URL.Path)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2025-01-02", req.DateISO)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"dateISO": "2025-01-02",
			"quests": []map[string]any{
				{"id": "ai_1", "title": "15 min walk", "area": "Body"},
				{"id": "ai_2", "title": "Read 10 pages", "area": "Mind"},
				{"id": "ai_3", "title": "Call a friend", "area": "Social"},
				{"id": "ai_4", "title": "Plan the day", "area": "Productivity"},
				{"id": "ai_5", "title": "5 min breathing", "area": "Wellbeing"},
			},
		})
	}))
	defer srv.Close()

	gen := NewHTTPGenerator(srv.URL)
	out, err := gen.Generate(context.Background(), Request{DateISO: "2025-01-02"})
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, model.AreaBody, out[0].Area)
}

func TestHTTPGenerator_FailureModes(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{nope"))
		},
		"wrong count": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"quests": []map[string]any{{"title": "only one", "area": "Body"}},
			})
		},
		"invalid area": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"quests": []map[string]any{
					{"title": "a", "area": "Body"},
					{"title": "b", "area": "Mind"},
					{"title": "c", "area": "Social"},
					{"title": "d", "area": "Productivity"},
					{"title": "e", "area": "Nonsense"},
				},
			})
		},
	}

	for name, handler := range cases {
		srv := httptest.NewServer(handler)
		gen := NewHTTPGenerator(srv.URL)
		_, err := gen.Generate(context.Background(), Request{DateISO: "2025-01-02"})
		assert.Error(t, err, name)
		srv.Close()
	}
}

func TestHTTPGenerator_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The request body must be drained for the server to notice the
		// client's timeout-driven disconnect and cancel r.Context();
		// otherwise this handler blocks forever and srv.Close() deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	gen := NewHTTPGenerator(srv.URL)
	gen.Timeout = 20 * time.Millisecond

	_, err := gen.Generate(context.Background(), Request{DateISO: "2025-01-02"})
	assert.Error(t, err)
}

func TestHelpClient_SuccessAndError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/quest-help", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["action"] == "steps" {
			_ = json.NewEncoder(w).Encode(HelpResult{
				Action: HelpSteps,
				Title:  "15 min walk",
				Area:   model.AreaBody,
				Text:   "Break it down",
				Steps:  []string{"shoes on", "out the door"},
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHelpClient(srv.URL)
	q := model.DailyQuest{ID: "q1", Title: "15 min walk", Area: model.AreaBody}

	res, err := c.Help(context.Background(), HelpSteps, q, ProfileSummary{Name: "Player"})
	require.NoError(t, err)
	assert.Len(t, res.Steps, 2)

	_, err = c.Help(context.Background(), HelpExplain, q, ProfileSummary{Name: "Player"})
	assert.Error(t, err, "non-2xx surfaces as an error for retry")

	_, err = c.Help(context.Background(), "shout", q, ProfileSummary{})
	assert.Error(t, err)
}
