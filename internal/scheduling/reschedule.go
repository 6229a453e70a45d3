package scheduling

import (
	"time"

	"github.com/teemow/assistant/internal/timeexpr"
)

// PlannedMove is the target timing of one event in a reschedule.
type PlannedMove struct {
	Event    Event        `json:"event"`
	To       TimeInterval `json:"to"`
	TimeZone string       `json:"time_zone"`
}

// Shift moves iv by delta. The duration is unchanged.
func Shift(iv TimeInterval, delta time.Duration) TimeInterval {
	return TimeInterval{Start: iv.Start.Add(delta), End: iv.End.Add(delta)}
}

// MoveTo moves iv to start. The duration is unchanged.
func MoveTo(iv TimeInterval, start time.Time) TimeInterval {
	return TimeInterval{Start: start, End: start.Add(iv.Duration())}
}

// planShift applies delta to ev. All-day events move by calendar days and
// reject deltas that are not whole days.
func planShift(ev Event, delta timeexpr.ShiftDelta, defaultTZ string) (PlannedMove, error) {
	move := PlannedMove{Event: ev, TimeZone: eventTimeZone(ev, defaultTZ)}
	if ev.AllDay {
		if !delta.WholeDays() {
			return move, ErrAllDayShift
		}
		days := int(delta.Duration() / (24 * time.Hour))
		move.To = TimeInterval{Start: ev.Start.AddDate(0, 0, days), End: ev.End.AddDate(0, 0, days)}
		return move, nil
	}
	move.To = Shift(ev.Interval(), delta.Duration())
	return move, nil
}

// planMove places ev at start.
func planMove(ev Event, start time.Time, defaultTZ string) PlannedMove {
	return PlannedMove{
		Event:    ev,
		To:       MoveTo(ev.Interval(), start),
		TimeZone: eventTimeZone(ev, defaultTZ),
	}
}

func eventTimeZone(ev Event, defaultTZ string) string {
	if ev.TimeZone != "" {
		return ev.TimeZone
	}
	return defaultTZ
}

func (m PlannedMove) patch() EventPatch {
	return EventPatch{
		Start:    m.To.Start,
		End:      m.To.End,
		TimeZone: m.TimeZone,
		AllDay:   m.Event.AllDay,
	}
}
