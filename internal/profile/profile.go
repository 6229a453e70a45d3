package profile

import (
	"fmt"
	"time"
)

// WorkHours is the daily working window.
type WorkHours struct {
	Start Clock
	End   Clock
}

// WorkProfile describes who the user is and when they want to be booked.
type WorkProfile struct {
	Name          string
	PreferredName string
	WorkingStyle  string
	WorkHours     WorkHours
	// WorkDays holds weekday indexes, 0=Monday.
	WorkDays []int
	// NoScheduleBefore and NoScheduleAfter default to the work hours.
	NoScheduleBefore *Clock
	NoScheduleAfter  *Clock
}

// Default returns a Monday to Friday, 09:00-18:00 profile.
func Default() WorkProfile {
	return WorkProfile{
		WorkHours: WorkHours{Start: MustClock("09:00"), End: MustClock("18:00")},
		WorkDays:  []int{0, 1, 2, 3, 4},
	}
}

// Validate checks the work window and weekday indexes.
func (p WorkProfile) Validate() error {
	if !p.WorkHours.Start.Before(p.WorkHours.End) {
		return fmt.Errorf("work hours start %s must be before end %s", p.WorkHours.Start, p.WorkHours.End)
	}
	for _, d := range p.WorkDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("work day %d out of range 0-6 (0=Monday)", d)
		}
	}
	if p.NoScheduleBefore != nil && p.NoScheduleAfter != nil && p.NoScheduleAfter.Before(*p.NoScheduleBefore) {
		return fmt.Errorf("no_schedule_after %s is before no_schedule_before %s", p.NoScheduleAfter, p.NoScheduleBefore)
	}
	return nil
}

// WeekdayIndex converts a time.Weekday to the 0=Monday index.
func WeekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// IsWorkDay reports whether t falls on a configured work day.
func (p WorkProfile) IsWorkDay(t time.Time) bool {
	idx := WeekdayIndex(t.Weekday())
	for _, d := range p.WorkDays {
		if d == idx {
			return true
		}
	}
	return false
}

// Window returns the working window on day.
func (p WorkProfile) Window(day time.Time) (time.Time, time.Time) {
	return p.WorkHours.Start.On(day), p.WorkHours.End.On(day)
}

// EarliestStart is NoScheduleBefore or the work start.
func (p WorkProfile) EarliestStart() Clock {
	if p.NoScheduleBefore != nil {
		return *p.NoScheduleBefore
	}
	return p.WorkHours.Start
}

// LatestStart is NoScheduleAfter or the work end.
func (p WorkProfile) LatestStart() Clock {
	if p.NoScheduleAfter != nil {
		return *p.NoScheduleAfter
	}
	return p.WorkHours.End
}

// DisplayName prefers the preferred name.
func (p WorkProfile) DisplayName() string {
	if p.PreferredName != "" {
		return p.PreferredName
	}
	return p.Name
}
