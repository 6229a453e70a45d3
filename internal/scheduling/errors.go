package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAmbiguousMatch is matched by AmbiguousMatchError.
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// ErrNoMatch is returned when a search finds no candidate event.
	ErrNoMatch = errors.New("no matching event")

	// ErrRemoteStore is matched by RemoteStoreError.
	ErrRemoteStore = errors.New("calendar store error")

	// ErrConflict is matched by ConflictError.
	ErrConflict = errors.New("time conflict")

	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")

	// ErrNotConfigured is returned when no calendar is configured.
	ErrNotConfigured = errors.New("no calendar configured, run setup first")

	// ErrShiftRequired is returned by bulk reschedule without a shift.
	ErrShiftRequired = errors.New("a shift (e.g. +1h) is required to reschedule a whole day")

	// ErrAllDayShift is reported for sub-day shifts of all-day events.
	ErrAllDayShift = errors.New("all-day events can only be shifted by whole days")
)

// AmbiguousMatchError lists the candidates a query matched.
type AmbiguousMatchError struct {
	Query      string
	Candidates []Event
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%d events match %q, pass an event id to choose one", len(e.Candidates), e.Query)
}

func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch
}

// RemoteStoreError wraps a CalendarStore failure with the operation name.
type RemoteStoreError struct {
	Op  string
	Err error
}

func (e *RemoteStoreError) Error() string {
	return fmt.Sprintf("calendar store %s failed: %v", e.Op, e.Err)
}

func (e *RemoteStoreError) Is(target error) bool {
	return target == ErrRemoteStore
}

func (e *RemoteStoreError) Unwrap() error {
	return e.Err
}

// ConflictError is returned when conflicts exist and nobody confirmed
// proceeding.
type ConflictError struct {
	Conflicts []Event
}

func (e *ConflictError) Error() string {
	titles := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		titles = append(titles, fmt.Sprintf("%q", c.Title))
	}
	return fmt.Sprintf("conflicts with %s; confirm to add anyway", strings.Join(titles, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func remoteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteStoreError{Op: op, Err: err}
}
