// Package reward rolls collectible planet drops for completions. Rarity odds
// improve with the current streak and the area's level; drops are limited to
// one per area per day.
package reward

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/LifeXP-create/LifeXP/internal/model"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var baseChances = []struct {
	key    Rarity
	chance float64
}{
	{RarityCommon, 0.65},
	{RarityUncommon, 0.20},
	{RarityRare, 0.10},
	{RarityEpic, 0.04},
	{RarityLegendary, 0.01},
}

func boosts(streakDays, areaLevel int) map[Rarity]float64 {
	b := map[Rarity]float64{}
	if streakDays >= 3 {
		b[RarityUncommon] += 0.05
	}
	if streakDays >= 5 {
		b[RarityRare] += 0.10
	}
	if streakDays >= 7 {
		b[RarityEpic] += 0.20
	}
	if areaLevel >= 5 {
		b[RarityRare] += 0.02
	}
	if areaLevel >= 8 {
		b[RarityEpic] += 0.01
	}
	return b
}

// RollRarity draws a rarity from the boosted, renormalized table.
func RollRarity(rnd *rand.Rand, streakDays, areaLevel int) Rarity {
	b := boosts(streakDays, areaLevel)

	type slot struct {
		key Rarity
		p   float64
	}
	pool := make([]slot, 0, len(baseChances))
	sum := 0.0
	for _, e := range baseChances {
		p := e.chance + b[e.key]
		if p < 0 {
			p = 0
		}
		pool = append(pool, slot{e.key, p})
		sum += p
	}

	x := rnd.Float64()
	for _, s := range pool {
		x -= s.p / sum
		if x <= 0 {
			return s.key
		}
	}
	return RarityCommon
}

var namePools = map[model.Area][]string{
	model.AreaMind:         {"Serava", "Cerebra", "Mneme", "Noema", "Axiom", "Neura", "Syntra"},
	model.AreaBody:         {"Athron", "Vires", "Kardia", "Flexor", "Oxon", "Myon", "Endura"},
	model.AreaSocial:       {"Lumera", "Affina", "Conviva", "Amiro", "Cordis", "Communa"},
	model.AreaProductivity: {"Structa", "Kernis", "Fabrica", "Tessera", "Plano", "Cadence"},
	model.AreaWellbeing:    {"Calma", "Somnus", "Eunoia", "Silens", "Aurae", "Seren"},
}

// MakePlanet builds a planet for the area with the rolled rarity.
func MakePlanet(rnd *rand.Rand, area model.Area, rarity Rarity, now time.Time) model.Planet {
	pool := namePools[area]
	name := "Unnamed"
	if len(pool) > 0 {
		name = pool[rnd.Intn(len(pool))]
	}
	return model.Planet{
		ID:        uuid.NewString(),
		Name:      name,
		Rarity:    string(rarity),
		Area:      area,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
}

func dropKey(area model.Area, dateISO string) string {
	return string(area) + ":" + dateISO
}

// CanDropToday reports whether the area still has its daily drop available.
func CanDropToday(dropLog map[string]bool, area model.Area, dateISO string) bool {
	return !dropLog[dropKey(area, dateISO)]
}

// MaybeDrop rolls a planet for the area if today's drop is still available,
// appends it to the snapshot and marks the drop log. Returns the planet and
// whether one dropped.
func MaybeDrop(s *model.Snapshot, rnd *rand.Rand, area model.Area, dateISO string, now time.Time) (model.Planet, bool) {
	if s == nil || !area.IsValid() {
		return model.Planet{}, false
	}
	if s.DropLog == nil {
		s.DropLog = map[string]bool{}
	}
	if !CanDropToday(s.DropLog, area, dateISO) {
		return model.Planet{}, false
	}

	rarity := RollRarity(rnd, s.Streak, s.Areas[area].Level)
	p := MakePlanet(rnd, area, rarity, now)
	s.Planets = append(s.Planets, p)
	s.DropLog[dropKey(area, dateISO)] = true
	return p, true
}
