package quest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/progress"
)

// QuestCount is the number of daily quests live at once.
const QuestCount = 5

// Request is the payload sent to the quest-generation collaborator.
type Request struct {
	Profile        ProfileSummary        `json:"profile"`
	Prefs          PrefsSummary          `json:"prefs"`
	HistorySummary []progress.DaySummary `json:"historySummary"`
	DateISO        string                `json:"dateISO"`
}

// ProfileSummary is the slice of the profile the generator may see.
type ProfileSummary struct {
	Name      string   `json:"name"`
	Age       int      `json:"age,omitempty"`
	Goals     []string `json:"goals"`
	Interests []string `json:"interests"`
}

// PrefsSummary carries the learning signals: banned titles and per-area
// difficulty hints.
type PrefsSummary struct {
	BannedTitles   []string               `json:"bannedTitles"`
	AreaDifficulty map[model.Area]float64 `json:"areaDifficulty"`
}

// Proposal is one generated quest before ids are assigned.
type Proposal struct {
	Title string     `json:"title"`
	Area  model.Area `json:"area"`
}

// Generator produces the day's quest content. Implementations must either
// return exactly QuestCount valid proposals or an error; the reconciler
// treats every failure mode uniformly.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Proposal, error)
}

func toArea(s string) model.Area {
	return model.Area(strings.TrimSpace(s))
}

// ValidateProposals enforces the collaborator contract: exactly QuestCount
// entries, each with a non-blank title and a known area.
func ValidateProposals(ps []Proposal) error {
	if len(ps) != QuestCount {
		return fmt.Errorf("expected %d quests, got %d", QuestCount, len(ps))
	}
	for i, p := range ps {
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("quest %d has a blank title", i)
		}
		if !p.Area.IsValid() {
			return fmt.Errorf("quest %d has unknown area %q", i, p.Area)
		}
	}
	return nil
}

// BuildRequest assembles the generator payload from the snapshot for the
// given date, with a 7-day rolling history window.
func BuildRequest(s *model.Snapshot, dateISO string) Request {
	banned := make([]string, 0, len(s.Prefs.BannedTitles))
	for title := range s.Prefs.BannedTitles {
		banned = append(banned, title)
	}
	sort.Strings(banned)

	name := s.Profile.Name
	if name == "" {
		name = "Player"
	}

	return Request{
		Profile: ProfileSummary{
			Name:      name,
			Age:       s.Profile.Age,
			Goals:     s.Profile.Goals,
			Interests: s.Profile.Interests,
		},
		Prefs: PrefsSummary{
			BannedTitles:   banned,
			AreaDifficulty: s.Prefs.AreaDifficulty,
		},
		HistorySummary: progress.HistorySummary(s.History, dateISO, 7),
		DateISO:        dateISO,
	}
}
