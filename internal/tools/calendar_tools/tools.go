package calendar_tools

import (
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/server"
	"github.com/teemow/assistant/internal/tools/common"
)

// Report statuses returned instead of errors when the caller has to decide.
const (
	StatusAmbiguous            = "ambiguous"
	StatusConflict             = "conflict"
	StatusConfirmationRequired = "confirmation_required"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP
// server. readOnly skips the tools that change the calendar or preferences.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerEventTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	if err := registerSchedulingTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register scheduling tools: %w", err)
	}

	if err := registerPreferenceTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register preference tools: %w", err)
	}

	return nil
}

// candidate is the short form of an event in ambiguity reports.
type candidate struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func candidates(events []scheduling.Event) []candidate {
	out := make([]candidate, 0, len(events))
	for _, ev := range events {
		out = append(out, candidate{ID: ev.ID, Title: ev.Title, Start: ev.Start, End: ev.End})
	}
	return out
}

type ambiguousReport struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Candidates []candidate `json:"candidates"`
}

type conflictReport struct {
	Status    string             `json:"status"`
	Message   string             `json:"message"`
	Conflicts []scheduling.Event `json:"conflicts"`
}

func ambiguousResult(query string, events []scheduling.Event) (*mcp.CallToolResult, error) {
	return common.JSONResult(ambiguousReport{
		Status:     StatusAmbiguous,
		Message:    fmt.Sprintf("%d events match %q; call again with eventId set to one of the candidate ids", len(events), query),
		Candidates: candidates(events),
	})
}

// errorResult turns decision errors into reports and everything else into
// a tool error.
func errorResult(action string, err error) (*mcp.CallToolResult, error) {
	var amb *scheduling.AmbiguousMatchError
	if errors.As(err, &amb) {
		return ambiguousResult(amb.Query, amb.Candidates)
	}

	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		return common.JSONResult(conflictReport{
			Status:    StatusConflict,
			Message:   conflict.Error(),
			Conflicts: conflict.Conflicts,
		})
	}

	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err)), nil
}

// intArgs copies the present integer arguments into their destinations.
func intArgs(args map[string]interface{}, dst map[string]*int) error {
	for key, p := range dst {
		v, ok, err := common.IntArg(args, key)
		if err != nil {
			return err
		}
		if ok {
			*p = v
		}
	}
	return nil
}
