package model

// Area is one of the five fixed life categories every item belongs to.
type Area string

const (
	AreaBody         Area = "Body"
	AreaMind         Area = "Mind"
	AreaSocial       Area = "Social"
	AreaProductivity Area = "Productivity"
	AreaWellbeing    Area = "Wellbeing"
)

// Areas lists all categories in display order.
var Areas = []Area{AreaBody, AreaMind, AreaSocial, AreaProductivity, AreaWellbeing}

func (a Area) IsValid() bool {
	switch a {
	case AreaBody, AreaMind, AreaSocial, AreaProductivity, AreaWellbeing:
		return true
	}
	return false
}

// NormalizeArea maps unknown areas to the given default.
func NormalizeArea(a Area, fallback Area) Area {
	if a.IsValid() {
		return a
	}
	return fallback
}

// Profile is the player's global level/xp pair.
// Invariant after any mutator: XP < RequiredXPForLevel(Level).
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Level int    `json:"level"`
	XP    int    `json:"xp"`

	Age       int      `json:"age,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Goals     []string `json:"goals,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// AreaProgress accumulates per-area XP.
type AreaProgress struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// DailyQuest is ephemeral: the whole list is replaced at each day boundary.
type DailyQuest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Area  Area   `json:"area"`
	Done  bool   `json:"done"`
}

// Todo is a plain checklist entry with no recurrence semantics.
type Todo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// HistoryDay aggregates one calendar day. Entries are only ever added to.
type HistoryDay struct {
	Completed int          `json:"completed"`
	XP        int          `json:"xp"`
	PerArea   map[Area]int `json:"perArea"`
}

// Prefs carries the soft signals fed back to the quest generator.
type Prefs struct {
	// AreaDifficulty is a per-area hint nudged by quest ratings.
	AreaDifficulty map[Area]float64 `json:"areaDifficulty"`
	// BannedTitles is a permanent set of titles the generator must not reissue.
	BannedTitles map[string]bool `json:"bannedTitles"`
}

// ReminderSettings stores the daily notification slot. Delivery is external;
// only the configuration is persisted here.
type ReminderSettings struct {
	Enabled bool   `json:"enabled"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	ID      string `json:"id,omitempty"`
}

// Event is a calendar entry. Events are keyed by date in the snapshot and
// mirrored into a derived quick reminder.
type Event struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start,omitempty"` // "HH:MM"
	End      string `json:"end,omitempty"`
	Location string `json:"location,omitempty"`
	Note     string `json:"note,omitempty"`
}
