package calendar_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/server"
	"github.com/teemow/assistant/internal/tools/common"
)

func registerEventTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List events tool (read-only, always available)
	listTool := mcp.NewTool("calendar_list",
		mcp.WithDescription("List events on the assistant calendar around now"),
		mcp.WithNumber("daysBack",
			mcp.Description("Days before now to include (default: 3)"),
		),
		mcp.WithNumber("daysAhead",
			mcp.Description("Days after now to include (default: 7)"),
		),
		mcp.WithBoolean("digest",
			mcp.Description("Show the week ahead on Mondays and the rest of today otherwise; overrides daysBack/daysAhead"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events (default: 50)"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("calendar_list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, request, sc)
	}))

	searchTool := mcp.NewTool("calendar_search",
		mcp.WithDescription("Full-text search over event titles and descriptions"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithNumber("daysBack",
			mcp.Description("Days before now to search (default: 90)"),
		),
		mcp.WithNumber("daysAhead",
			mcp.Description("Days after now to search (default: 90)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events (default: 25)"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandler("calendar_search", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearch(ctx, request, sc)
	}))

	if readOnly {
		return nil
	}

	addTool := mcp.NewTool("calendar_add",
		mcp.WithDescription("Add an event. Preferences matching the title fill in duration, color, reminder, calendar and recurrence. Conflicts are reported instead of added unless confirmed is true."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time: ISO 8601 (e.g. '2025-06-12T14:00') or natural language ('tomorrow 2pm')"),
		),
		mcp.WithString("end",
			mcp.Description("End time; defaults to start plus the preferred duration"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for the event (default: configured zone)"),
		),
		mcp.WithString("color",
			mcp.Description("Color name: blue, green, purple, red, yellow, orange, turquoise, gray, bold_blue, bold_green, bold_red"),
		),
		mcp.WithNumber("reminderMinutes",
			mcp.Description("Popup reminder in minutes before start"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Duration in minutes when end is not given"),
		),
		mcp.WithString("recurrence",
			mcp.Description("RRULE, e.g. 'RRULE:FREQ=WEEKLY;BYDAY=MO'"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated attendee emails; invitations are sent"),
		),
		mcp.WithNumber("prepMinutes",
			mcp.Description("Add a preparation block of this many minutes before the event"),
		),
		mcp.WithBoolean("confirmed",
			mcp.Description("Add even when the slot conflicts with existing events"),
		),
	)
	s.AddTool(addTool, common.InstrumentedToolHandler("calendar_add", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(ctx, request, sc)
	}))

	deleteTool := mcp.NewTool("calendar_delete",
		mcp.WithDescription("Delete an event found by title (past week to 90 days ahead). Without confirmed=true the event that would be deleted is returned."),
		mcp.WithString("title",
			mcp.Description("Title text to search for"),
		),
		mcp.WithString("eventId",
			mcp.Description("Event id or id prefix, to pick one of several matches"),
		),
		mcp.WithBoolean("confirmed",
			mcp.Description("Delete without asking for confirmation"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("calendar_delete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDelete(ctx, request, sc)
	}))

	return nil
}

func handleList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	req := scheduling.ListRequest{DaysBack: 3, DaysAhead: 7, Digest: common.BoolArg(args, "digest")}

	if err := intArgs(args, map[string]*int{"daysBack": &req.DaysBack, "daysAhead": &req.DaysAhead, "maxResults": &req.MaxResults}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := sc.Scheduling().List(ctx, req)
	if err != nil {
		return errorResult("list events", err)
	}
	return common.JSONResult(res)
}

func handleSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query, err := common.RequiredStringArg(args, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req := scheduling.SearchRequest{Query: query}
	if err := intArgs(args, map[string]*int{"daysBack": &req.DaysBack, "daysAhead": &req.DaysAhead, "maxResults": &req.MaxResults}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := sc.Scheduling().Search(ctx, req)
	if err != nil {
		return errorResult("search events", err)
	}
	if events == nil {
		events = []scheduling.Event{}
	}
	return common.JSONResult(events)
}

type addReport struct {
	Status    string                       `json:"status"`
	Event     scheduling.Event             `json:"event"`
	Prep      *scheduling.Event            `json:"prep,omitempty"`
	PrepError string                       `json:"prep_error,omitempty"`
	Warnings  []scheduling.BoundaryWarning `json:"warnings,omitempty"`
	Preview   scheduling.AddPreview        `json:"preview"`
}

func handleAdd(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, err := common.RequiredStringArg(args, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := common.RequiredStringArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := scheduling.AddRequest{
		Title:       title,
		Start:       start,
		End:         common.StringArg(args, "end"),
		Description: common.StringArg(args, "description"),
		TimeZone:    common.StringArg(args, "timeZone"),
		Color:       common.StringArg(args, "color"),
		Recurrence:  common.StringArg(args, "recurrence"),
		Attendees:   common.StringListArg(args, "attendees"),
		Confirmed:   common.BoolArg(args, "confirmed"),
	}
	if req.ReminderMinutes, err = common.IntPtrArg(args, "reminderMinutes"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.DurationMinutes, err = common.IntPtrArg(args, "durationMinutes"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prep, _, err := common.IntArg(args, "prepMinutes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req.PrepMinutes = prep

	res, err := sc.Scheduling().Add(ctx, req)
	if err != nil {
		return errorResult("add event", err)
	}

	report := addReport{
		Status:   "created",
		Event:    res.Event,
		Prep:     res.Prep,
		Warnings: res.Preview.Warnings,
		Preview:  res.Preview,
	}
	if res.PrepErr != nil {
		report.PrepError = res.PrepErr.Error()
	}
	return common.JSONResult(report)
}

type deletePreview struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Event   scheduling.Event `json:"event"`
}

func handleDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	req := scheduling.DeleteRequest{
		Title:     common.StringArg(args, "title"),
		EventID:   common.StringArg(args, "eventId"),
		Confirmed: common.BoolArg(args, "confirmed"),
	}
	if req.Title == "" && req.EventID == "" {
		return mcp.NewToolResultError("title or eventId is required"), nil
	}

	svc := sc.Scheduling()
	preview := &previewConfirmer{}
	if !req.Confirmed {
		svc = svc.WithConfirmer(preview)
	}

	ev, err := svc.Delete(ctx, req)
	if errors.Is(err, scheduling.ErrCancelled) {
		switch {
		case preview.candidates != nil:
			return ambiguousResult(preview.query, preview.candidates)
		case preview.deletion != nil:
			return common.JSONResult(deletePreview{
				Status:  StatusConfirmationRequired,
				Message: fmt.Sprintf("call again with confirmed=true and eventId=%q to delete %q", preview.deletion.ID, preview.deletion.Title),
				Event:   *preview.deletion,
			})
		}
	}
	if err != nil {
		return errorResult("delete event", err)
	}
	return common.JSONResult(map[string]interface{}{
		"status": "deleted",
		"event":  ev,
	})
}
