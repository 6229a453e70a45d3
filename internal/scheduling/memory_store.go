package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory CalendarStore for tests and dry runs.
type MemoryStore struct {
	mu        sync.Mutex
	events    map[string][]Event
	calendars []CalendarInfo
	nextID    int
	patchErrs map[string]error

	// Calls counts store calls by method name.
	Calls map[string]int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:    make(map[string][]Event),
		patchErrs: make(map[string]error),
		Calls:     make(map[string]int),
	}
}

// Seed stores ev on calendarID, assigning an id when empty.
func (m *MemoryStore) Seed(calendarID string, ev Event) Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(calendarID, ev)
}

// AddCalendar registers a calendar for ListCalendars.
func (m *MemoryStore) AddCalendar(info CalendarInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendars = append(m.calendars, info)
}

// FailPatch makes PatchEvent fail for eventID.
func (m *MemoryStore) FailPatch(eventID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patchErrs[eventID] = err
}

// Events returns the events of calendarID sorted by start.
func (m *MemoryStore) Events(calendarID string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]Event(nil), m.events[calendarID]...)
	sortByStart(out)
	return out
}

func (m *MemoryStore) put(calendarID string, ev Event) Event {
	if ev.ID == "" {
		m.nextID++
		ev.ID = fmt.Sprintf("evt%04d", m.nextID)
	}
	if ev.HTMLLink == "" {
		ev.HTMLLink = "https://calendar.example/event?eid=" + ev.ID
	}
	m.events[calendarID] = append(m.events[calendarID], ev)
	return ev
}

// ListEvents returns events overlapping [TimeMin, TimeMax) whose title or
// description contains Text.
func (m *MemoryStore) ListEvents(_ context.Context, calendarID string, q EventQuery) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["ListEvents"]++

	text := strings.ToLower(q.Text)
	var out []Event
	for _, ev := range m.events[calendarID] {
		if !q.TimeMin.IsZero() && !ev.End.After(q.TimeMin) {
			continue
		}
		if !q.TimeMax.IsZero() && !ev.Start.Before(q.TimeMax) {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(ev.Title+" "+ev.Description), text) {
			continue
		}
		out = append(out, ev)
	}
	sortByStart(out)
	if q.MaxResults > 0 && len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}
	return out, nil
}

// InsertEvent stores ev with a fresh id.
func (m *MemoryStore) InsertEvent(_ context.Context, calendarID string, ev Event) (Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["InsertEvent"]++
	ev.ID = ""
	return m.put(calendarID, ev), nil
}

// PatchEvent updates the timing of an event.
func (m *MemoryStore) PatchEvent(_ context.Context, calendarID, eventID string, patch EventPatch) (Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["PatchEvent"]++

	if err := m.patchErrs[eventID]; err != nil {
		return Event{}, err
	}
	for i, ev := range m.events[calendarID] {
		if ev.ID != eventID {
			continue
		}
		ev.Start, ev.End, ev.TimeZone, ev.AllDay = patch.Start, patch.End, patch.TimeZone, patch.AllDay
		m.events[calendarID][i] = ev
		return ev, nil
	}
	return Event{}, fmt.Errorf("event %s not found", eventID)
}

// DeleteEvent removes an event.
func (m *MemoryStore) DeleteEvent(_ context.Context, calendarID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["DeleteEvent"]++

	events := m.events[calendarID]
	for i, ev := range events {
		if ev.ID == eventID {
			m.events[calendarID] = append(events[:i], events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event %s not found", eventID)
}

// FreeBusy returns the intervals of events overlapping window, per calendar.
func (m *MemoryStore) FreeBusy(_ context.Context, calendarIDs []string, window TimeInterval) (map[string][]TimeInterval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["FreeBusy"]++

	out := make(map[string][]TimeInterval, len(calendarIDs))
	for _, id := range calendarIDs {
		busy := []TimeInterval{}
		for _, ev := range m.events[id] {
			if ev.Status != "cancelled" && window.Overlaps(ev.Interval()) {
				busy = append(busy, ev.Interval())
			}
		}
		out[id] = busy
	}
	return out, nil
}

// ListCalendars returns the registered calendars.
func (m *MemoryStore) ListCalendars(context.Context) ([]CalendarInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["ListCalendars"]++
	return append([]CalendarInfo(nil), m.calendars...), nil
}

func sortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
