package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/profile"
	"github.com/teemow/assistant/internal/timeexpr"
)

// DefaultMinSlot is the minimum free slot length when none is given.
const DefaultMinSlot = 30 * time.Minute

// FreeRequest asks for free time. Date accepts today, tomorrow, this week,
// next week or a date; Days, when positive, overrides the span length.
type FreeRequest struct {
	Date        string
	Days        int
	MinDuration time.Duration
}

// DaySlots holds the free slots of one work day.
type DaySlots struct {
	Day    time.Time      `json:"day"`
	Window TimeInterval   `json:"window"`
	Slots  []TimeInterval `json:"slots"`
}

// FreeResult lists free slots per work day in the requested span.
type FreeResult struct {
	MinDuration time.Duration `json:"min_duration"`
	Calendars   []string      `json:"calendars"`
	Days        []DaySlots    `json:"days"`
}

// Free computes free slots within work hours, merging the busy time of the
// configured calendar and the primary calendar. Non-work days are skipped.
func (s *Service) Free(ctx context.Context, req FreeRequest) (*FreeResult, error) {
	res, err := s.free(ctx, req)
	s.record(ctx, "free", err)
	return res, err
}

func (s *Service) free(ctx context.Context, req FreeRequest) (*FreeResult, error) {
	span, err := timeexpr.ResolveSpan(s.resolver, req.Date, s.Now(), s.loc)
	if err != nil {
		return nil, err
	}
	if req.Days < 0 {
		return nil, fmt.Errorf("days must not be negative, got %d", req.Days)
	}
	if req.Days > 0 {
		span.Days = req.Days
	}
	minDuration := req.MinDuration
	if minDuration <= 0 {
		minDuration = DefaultMinSlot
	}

	prof, err := s.profiles.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load work profile: %w", err)
	}

	calendars := s.busyCalendars()
	result := &FreeResult{MinDuration: minDuration, Calendars: calendars}
	for i := 0; i < span.Days; i++ {
		day := span.Day(i)
		if !prof.IsWorkDay(day) {
			continue
		}
		window, busy, err := s.busyOn(ctx, prof, day, calendars)
		if err != nil {
			return nil, err
		}
		result.Days = append(result.Days, DaySlots{
			Day:    day,
			Window: window,
			Slots:  FreeSlots(window, busy, minDuration),
		})
	}
	return result, nil
}

func (s *Service) busyCalendars() []string {
	if s.calendarID == "" || s.calendarID == "primary" {
		return []string{"primary"}
	}
	return []string{s.calendarID, "primary"}
}

func (s *Service) busyOn(ctx context.Context, prof profile.WorkProfile, day time.Time, calendars []string) (TimeInterval, []TimeInterval, error) {
	start, end := prof.Window(day)
	window, err := NewInterval(start, end)
	if err != nil {
		return TimeInterval{}, nil, err
	}
	perCalendar, err := s.store.FreeBusy(ctx, calendars, window)
	if err != nil {
		s.logger.Warn("freebusy failed", logging.Operation("calendar.free"), logging.Err(err))
		return TimeInterval{}, nil, remoteErr("freebusy", err)
	}
	var busy []TimeInterval
	for _, id := range calendars {
		for _, b := range perCalendar[id] {
			busy = append(busy, b.In(s.loc))
		}
	}
	return window, busy, nil
}
