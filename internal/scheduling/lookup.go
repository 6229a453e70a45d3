package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/assistant/internal/logging"
)

// Candidate search windows and limits for single-event lookups.
const (
	lookupMax              = 5
	deleteLookbackDays     = 7
	deleteLookaheadDays    = 90
	rescheduleLookbackDays = 7
	rescheduleLookahead    = 30
)

// lookup describes one fuzzy event search.
type lookup struct {
	title     string
	eventID   string
	daysBack  int
	daysAhead int
}

// findEvent resolves a title (and optional event id prefix) to exactly one
// event. Several candidates go to the Confirmer; without one the caller
// gets an AmbiguousMatchError.
func (s *Service) findEvent(ctx context.Context, q lookup) (Event, error) {
	title := strings.TrimSpace(q.title)
	if title == "" && q.eventID == "" {
		return Event{}, fmt.Errorf("title or event id is required")
	}

	now := s.Now()
	query := EventQuery{
		TimeMin: now.AddDate(0, 0, -q.daysBack),
		TimeMax: now.AddDate(0, 0, q.daysAhead),
		Text:    title,
	}
	if q.eventID == "" {
		query.MaxResults = lookupMax
	}

	events, err := s.store.ListEvents(ctx, s.calendarID, query)
	if err != nil {
		return Event{}, remoteErr("list", err)
	}
	candidates := events
	if q.eventID != "" {
		candidates = nil
		for _, ev := range events {
			if strings.HasPrefix(ev.ID, q.eventID) {
				candidates = append(candidates, ev)
			}
		}
	}

	label := title
	if label == "" {
		label = q.eventID
	}
	switch len(candidates) {
	case 0:
		return Event{}, fmt.Errorf("%w for %q", ErrNoMatch, label)
	case 1:
		return candidates[0], nil
	}

	if s.confirmer == nil {
		return Event{}, &AmbiguousMatchError{Query: label, Candidates: candidates}
	}
	idx, err := s.confirmer.ChooseEvent(ctx, label, candidates)
	if err != nil {
		return Event{}, fmt.Errorf("choice failed: %w", err)
	}
	if idx < 0 || idx >= len(candidates) {
		return Event{}, ErrCancelled
	}
	return candidates[idx], nil
}

// DeleteRequest identifies the event to delete.
type DeleteRequest struct {
	Title     string
	EventID   string
	Confirmed bool
}

// Delete finds one event (past week to 90 days ahead), confirms and deletes
// it.
func (s *Service) Delete(ctx context.Context, req DeleteRequest) (Event, error) {
	ev, err := s.delete(ctx, req)
	s.record(ctx, "delete", err)
	return ev, err
}

func (s *Service) delete(ctx context.Context, req DeleteRequest) (Event, error) {
	if err := s.requireCalendar(); err != nil {
		return Event{}, err
	}
	ev, err := s.findEvent(ctx, lookup{
		title:     req.Title,
		eventID:   req.EventID,
		daysBack:  deleteLookbackDays,
		daysAhead: deleteLookaheadDays,
	})
	if err != nil {
		return Event{}, err
	}
	if !req.Confirmed && s.confirmer != nil {
		if err := s.confirm(s.confirmer.ConfirmDelete(ctx, ev)); err != nil {
			return Event{}, err
		}
	}
	if err := s.store.DeleteEvent(ctx, s.calendarID, ev.ID); err != nil {
		s.logger.Warn("delete failed", logging.EventID(ev.ID), logging.Err(err))
		return Event{}, remoteErr("delete", err)
	}
	s.logger.Info("event deleted", logging.EventID(ev.ID))
	return ev, nil
}

// SearchRequest is a full-text search around now. Zero fields take the
// defaults (90 days each way, 25 results).
type SearchRequest struct {
	Query      string
	DaysBack   int
	DaysAhead  int
	MaxResults int
}

// Search returns events matching the query text.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]Event, error) {
	if err := s.requireCalendar(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	back := orDefault(req.DaysBack, DefaultSearchDaysBack)
	ahead := orDefault(req.DaysAhead, DefaultSearchDaysAhead)
	now := s.Now()
	events, err := s.store.ListEvents(ctx, s.calendarID, EventQuery{
		TimeMin:    now.AddDate(0, 0, -back),
		TimeMax:    now.AddDate(0, 0, ahead),
		Text:       req.Query,
		MaxResults: orDefault(req.MaxResults, DefaultSearchMax),
	})
	if err != nil {
		return nil, remoteErr("list", err)
	}
	return events, nil
}

// ListRequest lists events around now. Digest overrides the window: the
// week ahead on Mondays, otherwise the rest of today.
type ListRequest struct {
	DaysBack   int
	DaysAhead  int
	MaxResults int
	Digest     bool
}

// ListResult carries the listed window with the events.
type ListResult struct {
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Weekly bool      `json:"weekly,omitempty"`
	Events []Event   `json:"events"`
}

// List returns events in a window around now.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	if err := s.requireCalendar(); err != nil {
		return nil, err
	}
	if req.DaysBack < 0 || req.DaysAhead < 0 {
		return nil, fmt.Errorf("days back and ahead must not be negative")
	}
	now := s.Now()
	res := &ListResult{From: now.AddDate(0, 0, -req.DaysBack), To: now.AddDate(0, 0, req.DaysAhead)}
	if req.Digest {
		res.From = now
		if now.Weekday() == time.Monday {
			res.Weekly = true
			res.To = now.AddDate(0, 0, 7)
		} else {
			res.To = now.AddDate(0, 0, 1)
		}
	}
	events, err := s.store.ListEvents(ctx, s.calendarID, EventQuery{
		TimeMin:    res.From,
		TimeMax:    res.To,
		MaxResults: orDefault(req.MaxResults, DefaultListMax),
	})
	if err != nil {
		return nil, remoteErr("list", err)
	}
	res.Events = events
	return res, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
