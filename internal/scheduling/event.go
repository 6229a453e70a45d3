package scheduling

import "time"

// Event is a calendar event as the engine sees it. For all-day events Start
// and End are local midnights and End is exclusive.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TimeZone    string    `json:"time_zone,omitempty"`
	AllDay      bool      `json:"all_day,omitempty"`
	ColorID     string    `json:"color_id,omitempty"`
	// ReminderMinutes holds popup reminder overrides. Nil leaves the
	// calendar default; an empty slice disables reminders.
	ReminderMinutes []int    `json:"reminder_minutes,omitempty"`
	Recurrence      []string `json:"recurrence,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
	HTMLLink        string   `json:"html_link,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// Interval returns the event's [Start, End).
func (e Event) Interval() TimeInterval {
	return TimeInterval{Start: e.Start, End: e.End}
}

// Duration returns the event length.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// EventQuery filters ListEvents. Zero values mean "no bound".
type EventQuery struct {
	TimeMin    time.Time
	TimeMax    time.Time
	Text       string
	MaxResults int
}

// EventPatch replaces the timing of an existing event.
type EventPatch struct {
	Start    time.Time
	End      time.Time
	TimeZone string
	AllDay   bool
}

// CalendarInfo describes a calendar visible to the user.
type CalendarInfo struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	TimeZone   string `json:"time_zone,omitempty"`
	Primary    bool   `json:"primary,omitempty"`
	AccessRole string `json:"access_role,omitempty"`
}
