package state

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/period"
)

// Calendar events live under their date key and mirror themselves into a
// derived quick reminder so they show up in the day's list. The reminder id
// is stable per event, so edits upsert instead of duplicating.

func eventReminderID(eventID string) string {
	return "evq_" + eventID
}

func buildEventReminder(ev model.Event, dateISO, createdAt string) model.QuickReminder {
	title := strings.TrimSpace(ev.Title)
	if t := strings.TrimSpace(ev.Start); t != "" {
		title = strings.TrimSpace(t + " " + title)
	}
	return model.QuickReminder{
		ID:        eventReminderID(ev.ID),
		Title:     title,
		Area:      model.AreaProductivity,
		CreatedAt: createdAt,
		DueDate:   dateISO,
		Origin:    model.OriginCalendar,
		FromEvent: true,
		EventID:   ev.ID,
		Time:      ev.Start,
	}
}

func (s *Service) upsertEventReminderLocked(ev model.Event, dateISO string) {
	r := buildEventReminder(ev, dateISO, s.clock.Now().UTC().Format(time.RFC3339))
	for i, existing := range s.snap.Reminders {
		if existing.ID == r.ID {
			r.CreatedAt = existing.CreatedAt
			s.snap.Reminders[i] = r
			return
		}
	}
	s.snap.Reminders = append([]model.QuickReminder{r}, s.snap.Reminders...)
}

func (s *Service) removeEventReminderLocked(eventID string) {
	kept := s.snap.Reminders[:0]
	for _, r := range s.snap.Reminders {
		if r.FromEvent && r.EventID == eventID {
			continue
		}
		kept = append(kept, r)
	}
	s.snap.Reminders = kept
}

func sortEvents(list []model.Event) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Start < list[j].Start })
}

func (s *Service) AddEvent(dateISO string, ev model.Event) (model.Event, bool) {
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" {
		return model.Event{}, false
	}
	if !period.IsISODate(dateISO) {
		dateISO = s.today()
	}
	ev.ID = "e_" + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.snap.Events[dateISO], ev)
	sortEvents(list)
	s.snap.Events[dateISO] = list
	s.upsertEventReminderLocked(ev, dateISO)
	s.save()
	return ev, true
}

func (s *Service) UpdateEvent(dateISO, id string, patch model.Event) bool {
	if !period.IsISODate(dateISO) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.snap.Events[dateISO]
	for i, ev := range list {
		if ev.ID != id {
			continue
		}
		next := applyEventPatch(ev, patch)
		list[i] = next
		sortEvents(list)
		s.snap.Events[dateISO] = list
		s.upsertEventReminderLocked(next, dateISO)
		s.save()
		return true
	}
	return false
}

// MoveEvent relocates an event to another date, carrying any field edits
// along and re-pointing the derived reminder.
func (s *Service) MoveEvent(oldDateISO, newDateISO, id string, patch model.Event) bool {
	if !period.IsISODate(oldDateISO) || !period.IsISODate(newDateISO) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	oldList := s.snap.Events[oldDateISO]
	for i, ev := range oldList {
		if ev.ID != id {
			continue
		}
		moved := applyEventPatch(ev, patch)
		s.snap.Events[oldDateISO] = append(oldList[:i], oldList[i+1:]...)
		newList := append(s.snap.Events[newDateISO], moved)
		sortEvents(newList)
		s.snap.Events[newDateISO] = newList
		s.upsertEventReminderLocked(moved, newDateISO)
		s.save()
		return true
	}
	return false
}

func (s *Service) RemoveEvent(dateISO, id string) bool {
	if !period.IsISODate(dateISO) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.snap.Events[dateISO]
	for i, ev := range list {
		if ev.ID == id {
			s.snap.Events[dateISO] = append(list[:i], list[i+1:]...)
			s.removeEventReminderLocked(id)
			s.save()
			return true
		}
	}
	return false
}

func applyEventPatch(ev, patch model.Event) model.Event {
	if t := strings.TrimSpace(patch.Title); t != "" {
		ev.Title = t
	}
	if patch.Start != "" {
		ev.Start = patch.Start
	}
	if patch.End != "" {
		ev.End = patch.End
	}
	if patch.Location != "" {
		ev.Location = patch.Location
	}
	if patch.Note != "" {
		ev.Note = patch.Note
	}
	return ev
}
