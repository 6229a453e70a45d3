package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/preferences"
)

// AddStage is a step of the add flow. Stages run once, in order.
type AddStage int

const (
	StageDraft AddStage = iota
	StagePreferenceResolved
	StageBoundaryChecked
	StageConflictChecked
	StageConfirmed
	StageCommitted
)

func (s AddStage) String() string {
	switch s {
	case StageDraft:
		return "draft"
	case StagePreferenceResolved:
		return "preference_resolved"
	case StageBoundaryChecked:
		return "boundary_checked"
	case StageConflictChecked:
		return "conflict_checked"
	case StageConfirmed:
		return "confirmed"
	case StageCommitted:
		return "committed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// PrepColor is the color of prep blocks.
const PrepColor = "yellow"

// AddRequest is a raw add request. Explicit fields override preferences.
type AddRequest struct {
	Title       string
	Start       string
	End         string
	Description string
	TimeZone    string
	Color       string
	// ReminderMinutes and DurationMinutes override when non-nil.
	ReminderMinutes *int
	DurationMinutes *int
	Recurrence      string
	Attendees       []string
	PrepMinutes     int
	// Confirmed pre-authorizes conflicts and the final confirmation.
	Confirmed bool
}

// AddPreview is what the user is asked to confirm.
type AddPreview struct {
	Title       string               `json:"title"`
	Start       time.Time            `json:"start"`
	End         time.Time            `json:"end"`
	TimeZone    string               `json:"time_zone"`
	CalendarID  string               `json:"calendar_id"`
	Preference  preferences.Resolved `json:"preference"`
	Recurrence  string               `json:"recurrence,omitempty"`
	Occurrences []time.Time          `json:"next_occurrences,omitempty"`
	Attendees   []string             `json:"attendees,omitempty"`
	PrepMinutes int                  `json:"prep_minutes,omitempty"`
	Warnings    []BoundaryWarning    `json:"warnings,omitempty"`
	Conflicts   []Event              `json:"conflicts,omitempty"`
}

// AddResult reports a committed add. PrepErr is set when the prep block
// could not be inserted; the main event stays.
type AddResult struct {
	Preview AddPreview `json:"preview"`
	Event   Event      `json:"event"`
	Prep    *Event     `json:"prep,omitempty"`
	PrepErr error      `json:"-"`
}

// Add runs the add flow: resolve preferences, check work-hour boundaries,
// check conflicts, confirm and insert. Parsing and validation failures
// abort before any remote mutation.
func (s *Service) Add(ctx context.Context, req AddRequest) (*AddResult, error) {
	res, err := s.add(ctx, req)
	s.record(ctx, "add", err)
	return res, err
}

func (s *Service) add(ctx context.Context, req AddRequest) (*AddResult, error) {
	logger := logging.WithOperation(s.logger, "calendar.add")
	stage := func(st AddStage) { logger.Debug("add flow", logging.Stage(st.String())) }
	stage(StageDraft)

	if err := s.requireCalendar(); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if req.PrepMinutes < 0 {
		return nil, fmt.Errorf("prep minutes must not be negative, got %d", req.PrepMinutes)
	}

	tzName, loc := s.tzName, s.loc
	if req.TimeZone != "" {
		l, err := time.LoadLocation(req.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("unknown time zone %q: %w", req.TimeZone, err)
		}
		tzName, loc = req.TimeZone, l
	}
	ref := s.now().In(loc)

	start, err := s.resolver.Resolve(req.Start, ref, loc)
	if err != nil {
		return nil, err
	}
	start = start.In(loc)

	// PreferenceResolved
	doc, err := s.prefs.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	pref := doc.Match(title, req.Description)
	if err := applyOverrides(&pref, req); err != nil {
		return nil, err
	}

	var end time.Time
	if strings.TrimSpace(req.End) != "" {
		if end, err = s.resolver.Resolve(req.End, ref, loc); err != nil {
			return nil, err
		}
		end = end.In(loc)
	} else {
		end = start.Add(time.Duration(pref.DurationMinutes) * time.Minute)
	}
	interval, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}

	var occurrences []time.Time
	if pref.Recurrence != "" {
		if occurrences, err = preferences.NextOccurrences(pref.Recurrence, start, 3); err != nil {
			return nil, err
		}
	}

	calendarID, err := s.resolveCalendar(ctx, pref.CalendarName)
	if err != nil {
		return nil, err
	}

	preview := AddPreview{
		Title:       title,
		Start:       interval.Start,
		End:         interval.End,
		TimeZone:    tzName,
		CalendarID:  calendarID,
		Preference:  pref,
		Recurrence:  pref.Recurrence,
		Occurrences: occurrences,
		Attendees:   cleanAttendees(req.Attendees),
		PrepMinutes: req.PrepMinutes,
	}
	stage(StagePreferenceResolved)

	// BoundaryChecked
	prof, err := s.profiles.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load work profile: %w", err)
	}
	preview.Warnings = CheckBoundaries(prof, start)
	stage(StageBoundaryChecked)

	// ConflictChecked
	conflicts, err := FindConflicts(ctx, s.store, calendarID, interval)
	if err != nil {
		logger.Warn("conflict check failed", logging.Calendar(calendarID), logging.Err(err))
		return nil, err
	}
	preview.Conflicts = conflicts
	if len(conflicts) > 0 && !req.Confirmed {
		if s.confirmer == nil {
			return nil, &ConflictError{Conflicts: conflicts}
		}
		if err := s.confirm(s.confirmer.ConfirmConflicts(ctx, preview)); err != nil {
			return nil, err
		}
	}
	stage(StageConflictChecked)

	// Confirmed
	if !req.Confirmed && s.confirmer != nil {
		if err := s.confirm(s.confirmer.ConfirmAdd(ctx, preview)); err != nil {
			return nil, err
		}
	}
	stage(StageConfirmed)

	// Committed
	ev := Event{
		Title:           title,
		Description:     buildDescription(req.Description, s.workDir, s.sessionID, s.now()),
		Start:           interval.Start,
		End:             interval.End,
		TimeZone:        tzName,
		ColorID:         preferences.ColorID(pref.Color),
		ReminderMinutes: []int{pref.ReminderMinutes},
		Attendees:       preview.Attendees,
	}
	if pref.Recurrence != "" {
		ev.Recurrence = []string{preferences.NormalizeRecurrence(pref.Recurrence)}
	}

	created, err := s.store.InsertEvent(ctx, calendarID, ev)
	if err != nil {
		logger.Warn("insert failed", logging.Calendar(calendarID), logging.Err(err))
		return nil, remoteErr("insert", err)
	}
	stage(StageCommitted)
	logger.Info("event added", logging.Calendar(calendarID), logging.EventID(created.ID), logging.Attendees(preview.Attendees))

	result := &AddResult{Preview: preview, Event: created}
	if req.PrepMinutes > 0 {
		prep, err := s.insertPrep(ctx, calendarID, title, interval.Start, req.PrepMinutes, tzName)
		if err != nil {
			logger.Warn("prep block failed", logging.Calendar(calendarID), logging.Err(err))
			result.PrepErr = err
		} else {
			result.Prep = &prep
		}
	}
	return result, nil
}

// applyOverrides lets explicit request fields win over the matched rule.
func applyOverrides(pref *preferences.Resolved, req AddRequest) error {
	if req.Color != "" {
		if !preferences.ValidColor(req.Color) {
			return fmt.Errorf("unknown color %q, valid colors: %s", req.Color, strings.Join(preferences.ColorNames(), ", "))
		}
		pref.Color = strings.ToLower(req.Color)
	}
	if req.ReminderMinutes != nil {
		if *req.ReminderMinutes < 0 {
			return fmt.Errorf("reminder must not be negative, got %d", *req.ReminderMinutes)
		}
		pref.ReminderMinutes = *req.ReminderMinutes
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return fmt.Errorf("duration must be positive, got %d", *req.DurationMinutes)
		}
		pref.DurationMinutes = *req.DurationMinutes
	}
	if req.Recurrence != "" {
		pref.Recurrence = req.Recurrence
	}
	if pref.Recurrence != "" {
		if err := preferences.ValidateRecurrence(pref.Recurrence); err != nil {
			return err
		}
	}
	return nil
}

// insertPrep adds the prep block ending at start. No conflict check runs.
func (s *Service) insertPrep(ctx context.Context, calendarID, title string, start time.Time, minutes int, tzName string) (Event, error) {
	prep := Event{
		Title:           "Prep: " + title,
		Description:     "Preparation time for: " + title,
		Start:           start.Add(-time.Duration(minutes) * time.Minute),
		End:             start,
		TimeZone:        tzName,
		ColorID:         preferences.ColorID(PrepColor),
		ReminderMinutes: []int{},
	}
	created, err := s.store.InsertEvent(ctx, calendarID, prep)
	if err != nil {
		return Event{}, remoteErr("insert", err)
	}
	return created, nil
}

// resolveCalendar maps a rule's calendar name to an id. Ids (containing
// "@") and "primary" pass through, as do names no calendar carries.
func (s *Service) resolveCalendar(ctx context.Context, name string) (string, error) {
	if name == "" {
		return s.calendarID, nil
	}
	if name == "primary" || strings.Contains(name, "@") {
		return name, nil
	}
	cals, err := s.store.ListCalendars(ctx)
	if err != nil {
		return "", remoteErr("calendar_list", err)
	}
	for _, c := range cals {
		if strings.EqualFold(c.Summary, name) {
			return c.ID, nil
		}
	}
	s.logger.Warn("calendar name not found, using it as id", logging.Calendar(name))
	return name, nil
}

func cleanAttendees(in []string) []string {
	var out []string
	for _, a := range in {
		for _, part := range strings.Split(a, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
