package timeexpr

import (
	"strings"
	"time"
)

// WorkWeekDays is the length of the "this week"/"next week" spans.
const WorkWeekDays = 5

// Span is a run of consecutive calendar days starting at Start (midnight).
type Span struct {
	Start time.Time
	Days  int
}

// ResolveSpan maps day keywords to a Span: "" and "today", "tomorrow",
// "this week" and "next week" (Monday plus five days). Anything else is
// resolved as a single date through r.
func ResolveSpan(r *Resolver, text string, ref time.Time, loc *time.Location) (Span, error) {
	if loc == nil {
		loc = ref.Location()
	}
	today := StartOfDay(ref.In(loc))

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "today":
		return Span{Start: today, Days: 1}, nil
	case "tomorrow":
		return Span{Start: today.AddDate(0, 0, 1), Days: 1}, nil
	case "this week":
		return Span{Start: weekStart(today), Days: WorkWeekDays}, nil
	case "next week":
		return Span{Start: weekStart(today).AddDate(0, 0, 7), Days: WorkWeekDays}, nil
	}

	t, err := r.Resolve(text, ref, loc)
	if err != nil {
		return Span{}, err
	}
	return Span{Start: StartOfDay(t.In(loc)), Days: 1}, nil
}

// Day returns midnight of the i-th day of the span.
func (s Span) Day(i int) time.Time {
	return s.Start.AddDate(0, 0, i)
}

// weekStart returns the Monday of day's week.
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
