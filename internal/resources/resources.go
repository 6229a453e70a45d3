package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/assistant/internal/profile"
	"github.com/teemow/assistant/internal/server"
)

// Resource URIs.
const (
	ProfileURI      = "assistant://profile"
	PreferencesURI  = "assistant://preferences"
	TaskSummaryURI  = "assistant://tasks/summary"
	jsonContentType = "application/json"
)

// Catalog lists the resources RegisterAssistantResources serves.
func Catalog() []mcp.Resource {
	return []mcp.Resource{
		mcp.NewResource(
			ProfileURI,
			"Work Profile",
			mcp.WithResourceDescription("Work hours, work days and scheduling bounds that new events are checked against, plus the calendar and time zone in use"),
			mcp.WithMIMEType(jsonContentType),
		),
		mcp.NewResource(
			PreferencesURI,
			"Event Preferences",
			mcp.WithResourceDescription("Keyword rules that set duration, color, reminder, calendar and recurrence of new events, in match order"),
			mcp.WithMIMEType(jsonContentType),
		),
		mcp.NewResource(
			TaskSummaryURI,
			"Task Summary",
			mcp.WithResourceDescription("Counts of pending, overdue, due-today and high-priority tasks"),
			mcp.WithMIMEType(jsonContentType),
		),
	}
}

type readHandler func(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error)

var handlers = map[string]readHandler{
	ProfileURI:     handleProfile,
	PreferencesURI: handlePreferences,
	TaskSummaryURI: handleTaskSummary,
}

// RegisterAssistantResources registers the profile, preference and task
// summary resources.
func RegisterAssistantResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	for _, res := range Catalog() {
		handle, ok := handlers[res.URI]
		if !ok {
			return fmt.Errorf("no handler for resource %s", res.URI)
		}
		s.AddResource(res, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return handle(ctx, request, sc)
		})
	}
	return nil
}

type workHoursView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type profileView struct {
	Name             string        `json:"name,omitempty"`
	PreferredName    string        `json:"preferred_name,omitempty"`
	WorkingStyle     string        `json:"working_style,omitempty"`
	WorkHours        workHoursView `json:"work_hours"`
	WorkDays         []int         `json:"work_days"`
	NoScheduleBefore string        `json:"no_schedule_before"`
	NoScheduleAfter  string        `json:"no_schedule_after"`
	TimeZone         string        `json:"time_zone"`
	CalendarID       string        `json:"calendar_id,omitempty"`
}

func newProfileView(p profile.WorkProfile) profileView {
	return profileView{
		Name:             p.Name,
		PreferredName:    p.PreferredName,
		WorkingStyle:     p.WorkingStyle,
		WorkHours:        workHoursView{Start: p.WorkHours.Start.String(), End: p.WorkHours.End.String()},
		WorkDays:         p.WorkDays,
		NoScheduleBefore: p.EarliestStart().String(),
		NoScheduleAfter:  p.LatestStart().String(),
	}
}

func handleProfile(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	svc := sc.Scheduling()
	p, err := svc.Profile()
	if err != nil {
		return nil, err
	}
	view := newProfileView(p)
	view.TimeZone = svc.TimeZone()
	view.CalendarID = svc.CalendarID()
	return jsonContents(request.Params.URI, view)
}

func handlePreferences(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	doc, err := sc.Scheduling().Preferences()
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, doc)
}

func handleTaskSummary(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	sum, err := sc.Tasks().Summary()
	if err != nil {
		return nil, fmt.Errorf("failed to summarize tasks: %w", err)
	}
	return jsonContents(request.Params.URI, map[string]interface{}{
		"counts": sum,
		"text":   sum.String(),
	})
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: jsonContentType,
			Text:     string(data),
		},
	}, nil
}
