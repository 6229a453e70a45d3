package tasks_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/assistant/internal/server"
	"github.com/teemow/assistant/internal/tasks"
	"github.com/teemow/assistant/internal/tools/batch"
	"github.com/teemow/assistant/internal/tools/common"
)

// List views accepted by tasks_list.
const (
	ViewPending   = "pending"
	ViewToday     = "today"
	ViewWeek      = "week"
	ViewOverdue   = "overdue"
	ViewCategory  = "category"
	ViewSummary   = "summary"
	ViewCompleted = "completed"
)

// RegisterTasksTools registers all task tools with the MCP server
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("tasks_list",
		mcp.WithDescription("List tasks. Views: pending (by priority, then due date), today (due today plus undated high-priority), week (due within 7 days), overdue, category, summary, completed"),
		mcp.WithString("view",
			mcp.Description("pending, today, week, overdue, category, summary or completed (default: pending)"),
			mcp.Enum(ViewPending, ViewToday, ViewWeek, ViewOverdue, ViewCategory, ViewSummary, ViewCompleted),
		),
		mcp.WithString("category",
			mcp.Description("Only this category, for the category view"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of completed tasks (default: 10)"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("tasks_list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, request, sc)
	}))

	if readOnly {
		return nil
	}

	addTool := mcp.NewTool("tasks_add",
		mcp.WithDescription("Add a task"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("priority",
			mcp.Description("high, medium or low (default: medium)"),
			mcp.Enum(string(tasks.PriorityHigh), string(tasks.PriorityMedium), string(tasks.PriorityLow)),
		),
		mcp.WithString("category",
			mcp.Description("Free-form category"),
		),
		mcp.WithString("due",
			mcp.Description("Due date as YYYY-MM-DD"),
		),
		mcp.WithString("notes",
			mcp.Description("Additional notes"),
		),
	)
	s.AddTool(addTool, common.InstrumentedToolHandler("tasks_add", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(ctx, request, sc)
	}))

	completeTool := mcp.NewTool("tasks_complete",
		mcp.WithDescription("Mark pending tasks done, found by id prefix or title text"),
		mcp.WithString("task",
			mcp.Required(),
			mcp.Description("Task id prefix or part of the title (string), or an array of them to complete several tasks"),
		),
	)
	s.AddTool(completeTool, common.InstrumentedToolHandler("tasks_complete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleComplete(ctx, request, sc)
	}))

	return nil
}

type todayView struct {
	Due    []tasks.Task `json:"due_today"`
	Urgent []tasks.Task `json:"high_priority_undated"`
}

func handleList(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	view := common.StringArg(args, "view")
	if view == "" {
		view = ViewPending
	}
	m := sc.Tasks()

	var (
		result interface{}
		err    error
	)
	switch view {
	case ViewPending:
		result, err = nonNil(m.Pending())
	case ViewToday:
		var due, urgent []tasks.Task
		due, urgent, err = m.TodayTasks()
		result = todayView{Due: orEmpty(due), Urgent: orEmpty(urgent)}
	case ViewWeek:
		result, err = nonNil(m.Week())
	case ViewOverdue:
		result, err = nonNil(m.Overdue())
	case ViewCategory:
		result, err = m.ByCategory(common.StringArg(args, "category"))
	case ViewSummary:
		var sum tasks.Summary
		sum, err = m.Summary()
		result = map[string]interface{}{"counts": sum, "text": sum.String()}
	case ViewCompleted:
		limit, ok, lerr := common.IntArg(args, "limit")
		if lerr != nil {
			return mcp.NewToolResultError(lerr.Error()), nil
		}
		if !ok {
			limit = 10
		}
		result, err = nonNil(m.Completed(limit))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown view %q", view)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
	}
	return common.JSONResult(result)
}

func handleAdd(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	title, err := common.RequiredStringArg(args, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := sc.Tasks().Add(tasks.NewTask{
		Title:    title,
		Priority: common.StringArg(args, "priority"),
		Category: common.StringArg(args, "category"),
		Due:      common.StringArg(args, "due"),
		Notes:    common.StringArg(args, "notes"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add task: %v", err)), nil
	}
	return common.JSONResult(task)
}

type ambiguousReport struct {
	Status     string       `json:"status"`
	Message    string       `json:"message"`
	Candidates []tasks.Task `json:"candidates"`
}

func handleComplete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	queries, err := batch.ParseStringOrArray(args["task"], "task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(queries) > 1 {
		report := batch.Process(ctx, queries, func(ctx context.Context, query string) (tasks.Task, error) {
			return sc.Tasks().Complete(ctx, query)
		})
		return common.JSONResult(report)
	}

	task, err := sc.Tasks().Complete(ctx, queries[0])
	var amb *tasks.AmbiguousMatchError
	if errors.As(err, &amb) {
		return common.JSONResult(ambiguousReport{
			Status:     "ambiguous",
			Message:    amb.Error(),
			Candidates: amb.Candidates,
		})
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %v", err)), nil
	}
	return common.JSONResult(task)
}

func nonNil(list []tasks.Task, err error) ([]tasks.Task, error) {
	return orEmpty(list), err
}

func orEmpty(list []tasks.Task) []tasks.Task {
	if list == nil {
		return []tasks.Task{}
	}
	return list
}
