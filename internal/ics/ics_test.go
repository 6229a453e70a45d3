package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/assistant/internal/scheduling"
)

var stamp = time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)

func exportEvents(t *testing.T, events []scheduling.Event) (string, *ical.Calendar) {
	t.Helper()
	var buf bytes.Buffer
	err := Export(&buf, events, Options{
		Name:     "Assistant",
		TimeZone: "Europe/Berlin",
		Now:      func() time.Time { return stamp },
	})
	require.NoError(t, err)

	parsed, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	return buf.String(), parsed
}

func TestExport_TimedEvent(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	start := time.Date(2025, 6, 12, 14, 0, 0, 0, berlin)

	out, cal := exportEvents(t, []scheduling.Event{{
		ID:              "evt0001",
		Title:           "Standup",
		Description:     "Daily sync",
		Start:           start,
		End:             start.Add(30 * time.Minute),
		Recurrence:      []string{"RRULE:FREQ=DAILY;COUNT=5"},
		Attendees:       []string{"a@example.com"},
		ReminderMinutes: []int{10},
		HTMLLink:        "https://calendar.example/evt0001",
	}})

	assert.Contains(t, out, "PRODID:"+ProductID)
	assert.Contains(t, out, "X-WR-CALNAME:Assistant")
	assert.Contains(t, out, "DTSTART:20250612T120000Z")
	assert.Contains(t, out, "DTEND:20250612T123000Z")
	assert.Contains(t, out, "RRULE:FREQ=DAILY;COUNT=5")
	assert.Contains(t, out, "TRIGGER:-PT10M")
	assert.Contains(t, out, "mailto:a@example.com")

	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "evt0001@assistant", events[0].Id())
	assert.Equal(t, "Standup", events[0].GetProperty(ical.ComponentPropertySummary).Value)

	gotStart, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, gotStart.Equal(start))
}

func TestExport_AllDayAndCancelled(t *testing.T) {
	day := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	out, cal := exportEvents(t, []scheduling.Event{
		{ID: "holiday", Title: "Offsite", Start: day, End: day.AddDate(0, 0, 1), AllDay: true},
		{ID: "gone", Title: "Dropped", Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour), Status: "cancelled"},
	})

	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250613")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250614")
	assert.Contains(t, out, "STATUS:CANCELLED")
	assert.Len(t, cal.Events(), 2)
}

func TestExport_Empty(t *testing.T) {
	out, cal := exportEvents(t, nil)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Empty(t, cal.Events())
}

func TestUID(t *testing.T) {
	assert.Equal(t, "abc@assistant", uid(scheduling.Event{ID: "abc"}))
	assert.Equal(t, "1749715200@assistant", uid(scheduling.Event{Start: stamp}))
}
