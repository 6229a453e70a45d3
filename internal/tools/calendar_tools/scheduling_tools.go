package calendar_tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/server"
	"github.com/teemow/assistant/internal/tools/common"
)

// registerSchedulingTools registers availability and reschedule tools.
func registerSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	freeTool := mcp.NewTool("calendar_free",
		mcp.WithDescription("Find free slots within work hours on each work day of a span"),
		mcp.WithString("date",
			mcp.Description("today, tomorrow, this week, next week or a date (default: today)"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Minimum slot length in minutes (default: 30)"),
		),
		mcp.WithNumber("days",
			mcp.Description("Number of days from the start of the span, overriding its length"),
		),
	)
	s.AddTool(freeTool, common.InstrumentedToolHandler("calendar_free", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFree(ctx, request, sc)
	}))

	if readOnly {
		return nil
	}

	rescheduleTool := mcp.NewTool("calendar_reschedule",
		mcp.WithDescription("Move one event (by title or eventId) by a shift or to a new start, or shift every event of a date. Without confirmed=true the planned moves are returned."),
		mcp.WithString("title",
			mcp.Description("Title text of the event to move"),
		),
		mcp.WithString("eventId",
			mcp.Description("Event id or id prefix, to pick one of several matches"),
		),
		mcp.WithString("date",
			mcp.Description("Shift all events starting on this day instead of a single event; requires shift"),
		),
		mcp.WithString("shift",
			mcp.Description("Signed shift such as '+1h', '-30m', '+1d'"),
		),
		mcp.WithString("newStart",
			mcp.Description("New start time for a single event; the duration is kept"),
		),
		mcp.WithBoolean("confirmed",
			mcp.Description("Apply the change without returning a preview"),
		),
	)
	s.AddTool(rescheduleTool, common.InstrumentedToolHandler("calendar_reschedule", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleReschedule(ctx, request, sc)
	}))

	return nil
}

func handleFree(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	var minutes, days int
	if err := intArgs(args, map[string]*int{"durationMinutes": &minutes, "days": &days}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := sc.Scheduling().Free(ctx, scheduling.FreeRequest{
		Date:        common.StringArg(args, "date"),
		Days:        days,
		MinDuration: time.Duration(minutes) * time.Minute,
	})
	if err != nil {
		return errorResult("find free time", err)
	}
	return common.JSONResult(res)
}

type moveReport struct {
	Event    candidate               `json:"event"`
	To       scheduling.TimeInterval `json:"to"`
	TimeZone string                  `json:"time_zone"`
	Error    string                  `json:"error,omitempty"`
}

func moveReports(moves []scheduling.PlannedMove) []moveReport {
	out := make([]moveReport, 0, len(moves))
	for _, m := range moves {
		out = append(out, moveReport{Event: candidates([]scheduling.Event{m.Event})[0], To: m.To, TimeZone: m.TimeZone})
	}
	return out
}

type rescheduleReport struct {
	Status    string       `json:"status"`
	Message   string       `json:"message,omitempty"`
	Moves     []moveReport `json:"moves"`
	Succeeded int          `json:"succeeded,omitempty"`
	Failed    int          `json:"failed,omitempty"`
}

func handleReschedule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	confirmed := common.BoolArg(args, "confirmed")

	svc := sc.Scheduling()
	preview := &previewConfirmer{}
	if !confirmed {
		svc = svc.WithConfirmer(preview)
	}

	if date := common.StringArg(args, "date"); date != "" {
		res, err := svc.RescheduleDay(ctx, scheduling.BulkRescheduleRequest{
			Date:      date,
			Shift:     common.StringArg(args, "shift"),
			Confirmed: confirmed,
		})
		if errors.Is(err, scheduling.ErrCancelled) && preview.moves != nil {
			return confirmationResult(preview.moves)
		}
		if err != nil {
			return errorResult("reschedule day", err)
		}
		return common.JSONResult(bulkReport(res))
	}

	req := scheduling.RescheduleRequest{
		Title:     common.StringArg(args, "title"),
		EventID:   common.StringArg(args, "eventId"),
		Shift:     common.StringArg(args, "shift"),
		NewStart:  common.StringArg(args, "newStart"),
		Confirmed: confirmed,
	}
	if req.Title == "" && req.EventID == "" {
		return mcp.NewToolResultError("title, eventId or date is required"), nil
	}

	res, err := svc.Reschedule(ctx, req)
	if errors.Is(err, scheduling.ErrCancelled) {
		switch {
		case preview.candidates != nil:
			return ambiguousResult(preview.query, preview.candidates)
		case preview.moves != nil:
			return confirmationResult(preview.moves)
		}
	}
	if err != nil {
		return errorResult("reschedule event", err)
	}
	return common.JSONResult(rescheduleReport{
		Status:    "rescheduled",
		Moves:     moveReports([]scheduling.PlannedMove{res.Move}),
		Succeeded: 1,
	})
}

func confirmationResult(moves []scheduling.PlannedMove) (*mcp.CallToolResult, error) {
	return common.JSONResult(rescheduleReport{
		Status:  StatusConfirmationRequired,
		Message: fmt.Sprintf("%d event(s) would move; call again with confirmed=true to apply", len(moves)),
		Moves:   moveReports(moves),
	})
}

func bulkReport(res *scheduling.BulkResult) rescheduleReport {
	report := rescheduleReport{Status: "rescheduled", Moves: make([]moveReport, 0, len(res.Items))}
	for _, item := range res.Items {
		m := moveReports([]scheduling.PlannedMove{item.Move})[0]
		if item.Err != nil {
			m.Error = item.Err.Error()
			report.Failed++
		} else {
			report.Succeeded++
		}
		report.Moves = append(report.Moves, m)
	}
	if len(res.Items) == 0 {
		report.Message = fmt.Sprintf("no events start on %s", res.Day.Format("2006-01-02"))
	} else if report.Failed > 0 {
		report.Status = "partial"
	}
	return report
}
