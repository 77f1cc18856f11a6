// Package quest owns the day-boundary state machine for daily quests: it
// detects a stale quest list, settles streak continuity, pulls fresh content
// from the generator collaborator (or the local fallback), and applies
// completions and ratings.
package quest

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/period"
	"github.com/LifeXP-create/LifeXP/internal/progress"
)

// Rating signal steps: a liked quest nudges the area difficulty hint up a
// little, a hard one pulls it down harder.
const (
	DefaultLikeStep = 0.2
	DefaultHardStep = 0.4

	// DefaultCompletionXP is granted per completed quest.
	DefaultCompletionXP = 1
)

// RateAction is a user verdict on a generated quest.
type RateAction string

const (
	RateLike       RateAction = "like"
	RateHard       RateAction = "hard"
	RateIrrelevant RateAction = "irrelevant"
	RateDelete     RateAction = "delete"
)

func (a RateAction) IsValid() bool {
	switch a {
	case RateLike, RateHard, RateIrrelevant, RateDelete:
		return true
	}
	return false
}

// Reconciler drives daily quest regeneration and quest mutations against a
// snapshot. The zero value is not usable; build one with NewReconciler.
type Reconciler struct {
	generator Generator
	fallback  Generator

	CompletionXP int
	LikeStep     float64
	HardStep     float64

	newID func() string
}

// NewReconciler wires the external generator; content falls back to the
// local deterministic generator whenever it fails.
func NewReconciler(gen Generator) *Reconciler {
	return &Reconciler{
		generator:    gen,
		fallback:     FallbackGenerator{},
		CompletionXP: DefaultCompletionXP,
		LikeStep:     DefaultLikeStep,
		HardStep:     DefaultHardStep,
		newID:        func() string { return "q_" + uuid.NewString() },
	}
}

// EnsureDaily runs the day-boundary transition if the tracked last-reset
// date differs from todayISO. It settles the streak from the previous day,
// replaces the whole quest list atomically, and advances LastReset only
// after the new list is committed. Returns whether a transition ran.
func (r *Reconciler) EnsureDaily(ctx context.Context, s *model.Snapshot, todayISO string) bool {
	if s == nil || !period.IsISODate(todayISO) {
		return false
	}
	if s.LastReset == todayISO {
		return false
	}

	// First run: nothing to settle, just generate today's list.
	if s.LastReset != "" {
		hadDone := progress.HadCompletionOn(s.History, s.LastReset)
		if !hadDone {
			for _, q := range s.Quests {
				if q.Done {
					hadDone = true
					break
				}
			}
		}
		if hadDone {
			s.Streak++
		} else {
			s.Streak = 0
		}
	}

	s.Quests = r.generate(ctx, s, todayISO)
	s.LastReset = todayISO
	return true
}

func (r *Reconciler) generate(ctx context.Context, s *model.Snapshot, dateISO string) []model.DailyQuest {
	req := BuildRequest(s, dateISO)

	proposals, err := r.generateRemote(ctx, req)
	if err != nil {
		// Collaborator failure of any kind degrades silently to the local
		// generator; the user is never blocked on the network.
		proposals, _ = r.fallback.Generate(ctx, req)
	}

	quests := make([]model.DailyQuest, 0, len(proposals))
	for _, p := range proposals {
		quests = append(quests, model.DailyQuest{
			ID:    r.newID(),
			Title: strings.TrimSpace(p.Title),
			Area:  model.NormalizeArea(p.Area, model.AreaProductivity),
			Done:  false,
		})
	}
	return quests
}

func (r *Reconciler) generateRemote(ctx context.Context, req Request) ([]Proposal, error) {
	if r.generator == nil {
		return nil, context.Canceled
	}
	proposals, err := r.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ValidateProposals(proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// CompleteQuest marks the quest done, grants the completion XP and records
// history. Completing an already-done or unknown quest is a no-op. The
// completed quest is returned for reward handling.
func (r *Reconciler) CompleteQuest(s *model.Snapshot, id, todayISO string) (model.DailyQuest, bool) {
	if s == nil {
		return model.DailyQuest{}, false
	}
	for i, q := range s.Quests {
		if q.ID != id || q.Done {
			continue
		}
		s.Quests[i].Done = true

		gain := r.CompletionXP
		s.Profile = progress.AddXP(s.Profile, gain)
		s.Areas[q.Area] = progress.AddAreaXP(s.Areas[q.Area], gain)
		progress.RecordHistoryCompletion(s.History, q.Area, gain, todayISO)
		return s.Quests[i], true
	}
	return model.DailyQuest{}, false
}

// RateQuest applies a verdict to one of today's quests. Unknown ids and
// unknown actions are no-ops.
func (r *Reconciler) RateQuest(s *model.Snapshot, id string, action RateAction) {
	if s == nil {
		return
	}
	idx := -1
	for i, q := range s.Quests {
		if q.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	q := s.Quests[idx]

	switch action {
	case RateIrrelevant:
		// Permanently banned; the generator never reissues this title.
		s.Prefs.BannedTitles[q.Title] = true
	case RateDelete:
		s.Quests = append(s.Quests[:idx], s.Quests[idx+1:]...)
	case RateLike:
		s.Prefs.AreaDifficulty[q.Area] += r.LikeStep
	case RateHard:
		s.Prefs.AreaDifficulty[q.Area] -= r.HardStep
	}
}
