package scheduling

import "context"

// Confirmer asks the user for decisions the engine cannot make alone.
// A false answer cancels the request with ErrCancelled.
type Confirmer interface {
	// ConfirmConflicts asks whether to add despite preview.Conflicts.
	ConfirmConflicts(ctx context.Context, preview AddPreview) (bool, error)
	// ConfirmAdd is the final gate before inserting.
	ConfirmAdd(ctx context.Context, preview AddPreview) (bool, error)
	// ChooseEvent picks one of candidates. An index outside the slice
	// cancels.
	ChooseEvent(ctx context.Context, query string, candidates []Event) (int, error)
	ConfirmReschedule(ctx context.Context, moves []PlannedMove) (bool, error)
	ConfirmDelete(ctx context.Context, ev Event) (bool, error)
}
