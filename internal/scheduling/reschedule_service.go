package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/assistant/internal/instrumentation"
	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/timeexpr"
)

// RescheduleRequest moves one event, found by title or event id prefix,
// either by Shift ("+1h") or to NewStart. Exactly one must be set.
type RescheduleRequest struct {
	Title     string
	EventID   string
	Shift     string
	NewStart  string
	Confirmed bool
}

// RescheduleResult reports a single-event reschedule.
type RescheduleResult struct {
	Move    PlannedMove `json:"move"`
	Updated Event       `json:"updated"`
}

// Reschedule moves a single event, preserving its duration and time zone.
func (s *Service) Reschedule(ctx context.Context, req RescheduleRequest) (*RescheduleResult, error) {
	res, err := s.reschedule(ctx, req)
	s.record(ctx, "reschedule", err)
	return res, err
}

func (s *Service) reschedule(ctx context.Context, req RescheduleRequest) (*RescheduleResult, error) {
	if err := s.requireCalendar(); err != nil {
		return nil, err
	}
	hasShift := strings.TrimSpace(req.Shift) != ""
	hasStart := strings.TrimSpace(req.NewStart) != ""
	if hasShift == hasStart {
		return nil, fmt.Errorf("provide exactly one of shift or new start")
	}

	var (
		delta    timeexpr.ShiftDelta
		newStart time.Time
		err      error
	)
	if hasShift {
		if delta, err = timeexpr.ParseShift(req.Shift); err != nil {
			return nil, err
		}
	} else {
		if newStart, err = s.Resolve(req.NewStart); err != nil {
			return nil, err
		}
	}

	ev, err := s.findEvent(ctx, lookup{
		title:     req.Title,
		eventID:   req.EventID,
		daysBack:  rescheduleLookbackDays,
		daysAhead: rescheduleLookahead,
	})
	if err != nil {
		return nil, err
	}

	var move PlannedMove
	if hasShift {
		if move, err = planShift(ev, delta, s.tzName); err != nil {
			return nil, err
		}
	} else {
		move = planMove(ev, newStart, s.tzName)
	}

	if !req.Confirmed && s.confirmer != nil {
		if err := s.confirm(s.confirmer.ConfirmReschedule(ctx, []PlannedMove{move})); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.PatchEvent(ctx, s.calendarID, ev.ID, move.patch())
	if err != nil {
		s.logger.Warn("patch failed", logging.Operation("calendar.reschedule"), logging.EventID(ev.ID), logging.Err(err))
		return nil, remoteErr("patch", err)
	}
	return &RescheduleResult{Move: move, Updated: updated}, nil
}

// BulkRescheduleRequest shifts every event starting on Date.
type BulkRescheduleRequest struct {
	Date      string
	Shift     string
	Confirmed bool
}

// BulkItem is the outcome for one event of a bulk reschedule.
type BulkItem struct {
	Move    PlannedMove `json:"move"`
	Updated *Event      `json:"updated,omitempty"`
	Err     error       `json:"-"`
}

// BulkResult reports per-event outcomes. A failed item does not stop the
// others.
type BulkResult struct {
	Day   time.Time           `json:"day"`
	Shift timeexpr.ShiftDelta `json:"shift"`
	Items []BulkItem          `json:"items"`
}

// Succeeded counts the items that were patched.
func (r *BulkResult) Succeeded() int {
	n := 0
	for _, it := range r.Items {
		if it.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the items that could not be patched.
func (r *BulkResult) Failed() []BulkItem {
	var failed []BulkItem
	for _, it := range r.Items {
		if it.Err != nil {
			failed = append(failed, it)
		}
	}
	return failed
}

// RescheduleDay shifts all events starting on one day (in the configured
// zone) by the same delta. Each event keeps its duration and its own time
// zone and is patched independently.
func (s *Service) RescheduleDay(ctx context.Context, req BulkRescheduleRequest) (*BulkResult, error) {
	res, err := s.rescheduleDay(ctx, req)
	switch {
	case err != nil:
		s.record(ctx, "reschedule_day", err)
	case len(res.Failed()) > 0:
		s.metrics.RecordSchedulingOperation(ctx, "reschedule_day", instrumentation.OutcomePartial)
	default:
		s.record(ctx, "reschedule_day", nil)
	}
	return res, err
}

func (s *Service) rescheduleDay(ctx context.Context, req BulkRescheduleRequest) (*BulkResult, error) {
	if err := s.requireCalendar(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Shift) == "" {
		return nil, ErrShiftRequired
	}
	delta, err := timeexpr.ParseShift(req.Shift)
	if err != nil {
		return nil, err
	}
	when, err := s.Resolve(req.Date)
	if err != nil {
		return nil, err
	}
	day := timeexpr.StartOfDay(when.In(s.loc))
	next := day.AddDate(0, 0, 1)

	events, err := s.store.ListEvents(ctx, s.calendarID, EventQuery{TimeMin: day, TimeMax: next})
	if err != nil {
		return nil, remoteErr("list", err)
	}

	result := &BulkResult{Day: day, Shift: delta}
	var moves []PlannedMove
	for _, ev := range events {
		if ev.Start.Before(day) || !ev.Start.Before(next) || ev.Status == "cancelled" {
			continue
		}
		move, err := planShift(ev, delta, s.tzName)
		result.Items = append(result.Items, BulkItem{Move: move, Err: err})
		if err == nil {
			moves = append(moves, move)
		}
	}
	if len(moves) == 0 {
		return result, nil
	}

	if !req.Confirmed && s.confirmer != nil {
		if err := s.confirm(s.confirmer.ConfirmReschedule(ctx, moves)); err != nil {
			return nil, err
		}
	}

	logger := logging.WithOperation(s.logger, "calendar.reschedule_day")
	for i := range result.Items {
		item := &result.Items[i]
		if item.Err != nil {
			continue
		}
		updated, err := s.store.PatchEvent(ctx, s.calendarID, item.Move.Event.ID, item.Move.patch())
		if err != nil {
			item.Err = remoteErr("patch", err)
			logger.Warn("patch failed", logging.EventID(item.Move.Event.ID), logging.Err(err))
			continue
		}
		item.Updated = &updated
	}
	return result, nil
}
