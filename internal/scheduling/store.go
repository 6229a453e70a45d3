package scheduling

import (
	"context"

	"github.com/teemow/assistant/internal/preferences"
	"github.com/teemow/assistant/internal/profile"
)

//go:generate mockgen -source=store.go -destination=mock_store.go -package=scheduling

// CalendarStore is the remote calendar the engine reads and mutates.
// Implementations return their own errors; the Service wraps them.
type CalendarStore interface {
	ListEvents(ctx context.Context, calendarID string, q EventQuery) ([]Event, error)
	InsertEvent(ctx context.Context, calendarID string, ev Event) (Event, error)
	PatchEvent(ctx context.Context, calendarID, eventID string, patch EventPatch) (Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	// FreeBusy returns busy intervals per calendar id within window.
	FreeBusy(ctx context.Context, calendarIDs []string, window TimeInterval) (map[string][]TimeInterval, error)
	ListCalendars(ctx context.Context) ([]CalendarInfo, error)
}

// PreferenceStore loads and saves the preference document as a whole.
type PreferenceStore interface {
	Load() (preferences.Document, error)
	Save(doc preferences.Document) error
}

// ProfileStore loads the work profile.
type ProfileStore interface {
	Load() (profile.WorkProfile, error)
}
