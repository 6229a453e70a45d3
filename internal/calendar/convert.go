package calendar

import (
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/assistant/internal/scheduling"
)

const dateLayout = "2006-01-02"

// toEvent converts a Google Calendar event to a scheduling.Event. All-day
// dates without a zone of their own are read in loc.
func toEvent(event *calendar.Event, loc *time.Location) scheduling.Event {
	if event == nil {
		return scheduling.Event{}
	}
	ev := scheduling.Event{
		ID:          event.Id,
		Title:       event.Summary,
		Description: event.Description,
		ColorID:     event.ColorId,
		Recurrence:  event.Recurrence,
		HTMLLink:    event.HtmlLink,
		Status:      event.Status,
	}

	if event.Start != nil {
		ev.TimeZone = event.Start.TimeZone
		ev.AllDay = event.Start.DateTime == "" && event.Start.Date != ""
	}
	ev.Start = parseEventTime(event.Start, loc)
	ev.End = parseEventTime(event.End, loc)

	for _, att := range event.Attendees {
		ev.Attendees = append(ev.Attendees, att.Email)
	}

	if event.Reminders != nil && !event.Reminders.UseDefault {
		ev.ReminderMinutes = []int{}
		for _, o := range event.Reminders.Overrides {
			ev.ReminderMinutes = append(ev.ReminderMinutes, int(o.Minutes))
		}
	}
	return ev
}

// parseEventTime reads a timed or all-day instant. All-day dates become
// midnight in the event's zone, else in loc, else in UTC.
func parseEventTime(dt *calendar.EventDateTime, loc *time.Location) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	if dt.Date == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if dt.TimeZone != "" {
		if l, err := time.LoadLocation(dt.TimeZone); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation(dateLayout, dt.Date, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// fromEvent builds the insert payload for ev.
func fromEvent(ev scheduling.Event) *calendar.Event {
	event := &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		ColorId:     ev.ColorID,
		Recurrence:  ev.Recurrence,
		Start:       eventDateTime(ev.Start, ev.TimeZone, ev.AllDay),
		End:         eventDateTime(ev.End, ev.TimeZone, ev.AllDay),
	}

	for _, email := range ev.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	if ev.ReminderMinutes != nil {
		reminders := &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       []*calendar.EventReminder{},
			ForceSendFields: []string{"UseDefault", "Overrides"},
		}
		for _, m := range ev.ReminderMinutes {
			reminders.Overrides = append(reminders.Overrides, &calendar.EventReminder{
				Method:  "popup",
				Minutes: int64(m),
			})
		}
		event.Reminders = reminders
	}
	return event
}

// eventDateTime renders t as a date for all-day events and as RFC 3339
// otherwise, both in timeZone.
func eventDateTime(t time.Time, timeZone string, allDay bool) *calendar.EventDateTime {
	if allDay {
		if loc, err := loadZone(timeZone); err == nil {
			t = t.In(loc)
		}
		return &calendar.EventDateTime{Date: t.Format(dateLayout)}
	}
	if timeZone == "" {
		timeZone = "UTC"
	}
	if loc, err := time.LoadLocation(timeZone); err == nil {
		t = t.In(loc)
	}
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: timeZone,
	}
}

// loadZone loads a named zone. Empty names fail so callers keep t as is.
func loadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("no time zone")
	}
	return time.LoadLocation(name)
}

func parsePeriod(p *calendar.TimePeriod) (scheduling.TimeInterval, error) {
	start, err := time.Parse(time.RFC3339, p.Start)
	if err != nil {
		return scheduling.TimeInterval{}, fmt.Errorf("failed to parse busy start %q: %w", p.Start, err)
	}
	end, err := time.Parse(time.RFC3339, p.End)
	if err != nil {
		return scheduling.TimeInterval{}, fmt.Errorf("failed to parse busy end %q: %w", p.End, err)
	}
	return scheduling.NewInterval(start, end)
}

// toCalendarInfo converts a Google Calendar list entry to CalendarInfo
func toCalendarInfo(entry *calendar.CalendarListEntry) scheduling.CalendarInfo {
	if entry == nil {
		return scheduling.CalendarInfo{}
	}
	return scheduling.CalendarInfo{
		ID:         entry.Id,
		Summary:    entry.Summary,
		TimeZone:   entry.TimeZone,
		Primary:    entry.Primary,
		AccessRole: entry.AccessRole,
	}
}
