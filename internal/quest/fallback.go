package quest

import (
	"context"
	"hash/fnv"
	"math/rand"

	"github.com/LifeXP-create/LifeXP/internal/model"
)

// fallbackPool holds the offline quest content, a handful of small
// today-actionable items per area.
var fallbackPool = map[model.Area][]string{
	model.AreaBody: {
		"15 min walk",
		"10 min stretching",
		"20 squats",
		"Drink 2L of water today",
	},
	model.AreaMind: {
		"15 min of focused study",
		"Read 10 pages",
		"5 min tidying your notes",
		"Solve one practice problem",
	},
	model.AreaSocial: {
		"Message someone you care about",
		"Make a short call",
		"Thank somebody",
		"Ask your family how they are doing",
	},
	model.AreaProductivity: {
		"Write down your top 3 to-dos",
		"10 min decluttering",
		"15 min of deep focus",
		"Check tomorrow's calendar",
	},
	model.AreaWellbeing: {
		"5 min breathing exercise",
		"10 min offline",
		"Write a short journal entry",
		"Plan tonight's sleep routine",
	},
}

// FallbackGenerator produces quest content locally with no network
// dependency. The output is deterministic per date: the RNG is seeded from
// the requested date, so retries within a day agree while each day still
// looks fresh.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(_ context.Context, req Request) ([]Proposal, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte("daily-fallback::" + req.DateISO))
	rnd := rand.New(rand.NewSource(int64(h.Sum64())))

	areas := make([]model.Area, len(model.Areas))
	copy(areas, model.Areas)
	rnd.Shuffle(len(areas), func(i, j int) { areas[i], areas[j] = areas[j], areas[i] })

	banned := map[string]bool{}
	for _, t := range req.Prefs.BannedTitles {
		banned[t] = true
	}

	// Four quests spread over distinct areas plus one bonus from a random
	// area, mirroring the shipped offline pool.
	out := make([]Proposal, 0, QuestCount)
	used := map[string]bool{}
	for i := 0; i < QuestCount-1; i++ {
		area := areas[i%len(areas)]
		out = append(out, Proposal{Title: pickTitle(rnd, area, banned, used), Area: area})
	}
	bonus := areas[rnd.Intn(len(areas))]
	out = append(out, Proposal{Title: pickTitle(rnd, bonus, banned, used), Area: bonus})
	return out, nil
}

func pickTitle(rnd *rand.Rand, area model.Area, banned, used map[string]bool) string {
	pool := fallbackPool[area]
	start := rnd.Intn(len(pool))
	for i := 0; i < len(pool); i++ {
		title := pool[(start+i)%len(pool)]
		if banned[title] || used[title] {
			continue
		}
		used[title] = true
		return title
	}
	// Everything banned or taken: reuse the first pick rather than block.
	return pool[start]
}
