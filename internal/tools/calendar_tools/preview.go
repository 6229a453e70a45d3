package calendar_tools

import (
	"context"

	"github.com/teemow/assistant/internal/scheduling"
)

// previewConfirmer declines every confirmation and records what it was
// asked, so an unconfirmed call can describe the change it would make.
type previewConfirmer struct {
	query      string
	candidates []scheduling.Event
	moves      []scheduling.PlannedMove
	deletion   *scheduling.Event
}

var _ scheduling.Confirmer = (*previewConfirmer)(nil)

func (p *previewConfirmer) ConfirmConflicts(context.Context, scheduling.AddPreview) (bool, error) {
	return false, nil
}

func (p *previewConfirmer) ConfirmAdd(context.Context, scheduling.AddPreview) (bool, error) {
	return false, nil
}

func (p *previewConfirmer) ChooseEvent(_ context.Context, query string, candidates []scheduling.Event) (int, error) {
	p.query = query
	p.candidates = candidates
	return -1, nil
}

func (p *previewConfirmer) ConfirmReschedule(_ context.Context, moves []scheduling.PlannedMove) (bool, error) {
	p.moves = moves
	return false, nil
}

func (p *previewConfirmer) ConfirmDelete(_ context.Context, ev scheduling.Event) (bool, error) {
	p.deletion = &ev
	return false, nil
}
