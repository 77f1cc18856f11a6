package model

// Snapshot is the whole persisted document for one user. It is loaded
// wholesale at startup and written wholesale (debounced) on change.
type Snapshot struct {
	Profile   Profile               `json:"profile"`
	Areas     map[Area]AreaProgress `json:"areas"`
	Quests    []DailyQuest          `json:"quests"`
	Reminders []QuickReminder       `json:"quickReminders"`
	Todos     []Todo                `json:"todos"`
	Prefs     Prefs                 `json:"prefs"`
	Streak    int                   `json:"streak"`
	LastReset string                `json:"lastReset,omitempty"`
	History   map[string]HistoryDay `json:"history"`
	Events    map[string][]Event    `json:"events"`
	Recurring []RecurringTask       `json:"recurring"`
	Habits    []AntiHabit           `json:"antiHabits"`
	Reminder  ReminderSettings      `json:"reminder"`
	// WeeklyGoals is the per-area target completions per week.
	WeeklyGoals map[Area]int `json:"weeklyGoals"`
	// Planets are collected reward drops.
	Planets []Planet `json:"planets,omitempty"`
	// DropLog limits reward drops to one per area per day ("Area:date" keys).
	DropLog map[string]bool `json:"dropLog,omitempty"`
}

// Planet is a collectible reward rolled on quest completions.
type Planet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Rarity    string `json:"rarity"`
	Area      Area   `json:"area"`
	CreatedAt string `json:"createdAt"`
}

// DefaultWeeklyGoals mirrors the onboarding defaults.
var DefaultWeeklyGoals = map[Area]int{
	AreaBody:         3,
	AreaMind:         3,
	AreaSocial:       1,
	AreaProductivity: 3,
	AreaWellbeing:    4,
}

const defaultAreaDifficulty = 2

// NewSnapshot seeds the empty state used when no prior snapshot exists or
// the stored one is unreadable.
func NewSnapshot() *Snapshot {
	s := &Snapshot{
		Profile:     Profile{Name: "Player", Level: 1, XP: 0},
		Areas:       map[Area]AreaProgress{},
		Prefs:       Prefs{AreaDifficulty: map[Area]float64{}, BannedTitles: map[string]bool{}},
		History:     map[string]HistoryDay{},
		Events:      map[string][]Event{},
		WeeklyGoals: map[Area]int{},
		DropLog:     map[string]bool{},
	}
	for _, a := range Areas {
		s.Areas[a] = AreaProgress{Level: 1}
		s.Prefs.AreaDifficulty[a] = defaultAreaDifficulty
		s.WeeklyGoals[a] = DefaultWeeklyGoals[a]
	}
	return s
}

// Normalize repairs a loaded snapshot in place: nil maps become empty,
// missing areas get defaults, and stored items are re-sanitized. Profile
// leveling repair is the progress package's job and runs separately.
func (s *Snapshot) Normalize() {
	if s.Profile.Level < 1 {
		s.Profile.Level = 1
	}
	if s.Profile.XP < 0 {
		s.Profile.XP = 0
	}
	if s.Profile.Name == "" {
		s.Profile.Name = "Player"
	}
	if s.Areas == nil {
		s.Areas = map[Area]AreaProgress{}
	}
	for _, a := range Areas {
		ap, ok := s.Areas[a]
		if !ok || ap.Level < 1 {
			ap.Level = 1
			s.Areas[a] = ap
		}
	}
	if s.Prefs.AreaDifficulty == nil {
		s.Prefs.AreaDifficulty = map[Area]float64{}
	}
	for _, a := range Areas {
		if _, ok := s.Prefs.AreaDifficulty[a]; !ok {
			s.Prefs.AreaDifficulty[a] = defaultAreaDifficulty
		}
	}
	if s.Prefs.BannedTitles == nil {
		s.Prefs.BannedTitles = map[string]bool{}
	}
	if s.History == nil {
		s.History = map[string]HistoryDay{}
	}
	if s.Events == nil {
		s.Events = map[string][]Event{}
	}
	if s.WeeklyGoals == nil {
		s.WeeklyGoals = map[Area]int{}
	}
	for _, a := range Areas {
		if _, ok := s.WeeklyGoals[a]; !ok {
			s.WeeklyGoals[a] = DefaultWeeklyGoals[a]
		}
	}
	if s.DropLog == nil {
		s.DropLog = map[string]bool{}
	}
	if s.Streak < 0 {
		s.Streak = 0
	}
	for i, r := range s.Recurring {
		s.Recurring[i] = SanitizeRecurring(r)
	}
	for i, b := range s.Habits {
		s.Habits[i] = SanitizeAntiHabit(b)
	}
}
