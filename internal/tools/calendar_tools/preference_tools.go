package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/assistant/internal/preferences"
	"github.com/teemow/assistant/internal/server"
	"github.com/teemow/assistant/internal/tools/common"
)

func registerPreferenceTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	matchTool := mcp.NewTool("calendar_match_prefs",
		mcp.WithDescription("Show the preferences (duration, color, reminder, calendar, recurrence) that apply to an event title"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("description",
			mcp.Description("Event description, also searched for keywords"),
		),
	)
	s.AddTool(matchTool, common.InstrumentedToolHandler("calendar_match_prefs", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleMatchPrefs(ctx, request, sc)
	}))

	if readOnly {
		return nil
	}

	updateTool := mcp.NewTool("calendar_update_prefs",
		mcp.WithDescription("Create or update the preference rule for a keyword"),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Keyword the rule matches in titles and descriptions"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Default duration in minutes"),
		),
		mcp.WithString("color",
			mcp.Description("Color name"),
		),
		mcp.WithNumber("reminderMinutes",
			mcp.Description("Popup reminder in minutes before start"),
		),
		mcp.WithString("calendarName",
			mcp.Description("Name of the calendar matching events go to"),
		),
		mcp.WithString("recurrence",
			mcp.Description("Default RRULE for matching events"),
		),
	)
	s.AddTool(updateTool, common.InstrumentedToolHandler("calendar_update_prefs", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUpdatePrefs(ctx, request, sc)
	}))

	return nil
}

func handleMatchPrefs(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	title, err := common.RequiredStringArg(args, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := sc.Scheduling().MatchPreferences(title, common.StringArg(args, "description"))
	if err != nil {
		return errorResult("match preferences", err)
	}
	return common.JSONResult(resolved)
}

type updateReport struct {
	Status string           `json:"status"`
	Rule   preferences.Rule `json:"rule"`
}

func handleUpdatePrefs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	keyword, err := common.RequiredStringArg(args, "keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	u := preferences.Update{
		Color:        common.StringArg(args, "color"),
		CalendarName: common.StringArg(args, "calendarName"),
		Recurrence:   common.StringArg(args, "recurrence"),
	}
	if u.DurationMinutes, err = common.IntPtrArg(args, "durationMinutes"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if u.ReminderMinutes, err = common.IntPtrArg(args, "reminderMinutes"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rule, created, err := sc.Scheduling().UpdatePreference(ctx, keyword, u)
	if err != nil {
		return errorResult("update preferences", err)
	}
	status := "updated"
	if created {
		status = "created"
	}
	return common.JSONResult(updateReport{Status: status, Rule: rule})
}
