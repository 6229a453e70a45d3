package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/assistant/internal/instrumentation"
	"github.com/teemow/assistant/internal/logging"
	"github.com/teemow/assistant/internal/scheduling"
)

// listPageSize is the page size requested from events.list.
const listPageSize = 250

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	metrics *instrumentation.Metrics
	logger  *slog.Logger
	// loc reads all-day dates when the API reports no calendar zone.
	loc *time.Location
}

var _ scheduling.CalendarStore = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithMetrics records every API call on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger for best-effort failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithLocation sets the zone all-day dates are read in when a response
// carries none, normally the configured zone.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.loc = loc }
}

// NewClient creates a Calendar client using an authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return NewClientWithService(svc, opts...), nil
}

// NewClientWithService wraps an existing service, e.g. one pointed at a test
// endpoint.
func NewClientWithService(svc *calendar.Service, opts ...Option) *Client {
	c := &Client{svc: svc, logger: logging.Discard(), loc: time.UTC}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// observe runs fn inside a store span and records its outcome.
func (c *Client) observe(ctx context.Context, op, calendarID string, fn func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartStoreSpan(ctx, op, calendarID)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordStoreOperation(ctx, op, status, time.Since(start))
	return err
}

// zone returns the calendar zone named by a list response, falling back to
// the client's location.
func (c *Client) zone(name string) *time.Location {
	if name == "" {
		return c.loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		c.logger.Warn("unknown calendar time zone", "time_zone", name, logging.Err(err))
		return c.loc
	}
	return loc
}

// ListEvents lists single (expanded) events overlapping the query window,
// ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, q scheduling.EventQuery) ([]scheduling.Event, error) {
	var events []scheduling.Event
	err := c.observe(ctx, instrumentation.StoreOpList, calendarID, func(ctx context.Context) error {
		pageToken := ""
		for {
			call := c.svc.Events.List(calendarID).
				Context(ctx).
				SingleEvents(true).
				OrderBy("startTime").
				MaxResults(listPageSize)
			if !q.TimeMin.IsZero() {
				call = call.TimeMin(q.TimeMin.Format(time.RFC3339))
			}
			if !q.TimeMax.IsZero() {
				call = call.TimeMax(q.TimeMax.Format(time.RFC3339))
			}
			if q.Text != "" {
				call = call.Q(q.Text)
			}
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			page, err := call.Do()
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}
			loc := c.zone(page.TimeZone)
			for _, item := range page.Items {
				events = append(events, toEvent(item, loc))
				if q.MaxResults > 0 && len(events) == q.MaxResults {
					return nil
				}
			}
			if page.NextPageToken == "" {
				return nil
			}
			pageToken = page.NextPageToken
		}
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// InsertEvent creates an event. Invitations go out when attendees are set.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, ev scheduling.Event) (scheduling.Event, error) {
	var created scheduling.Event
	err := c.observe(ctx, instrumentation.StoreOpInsert, calendarID, func(ctx context.Context) error {
		call := c.svc.Events.Insert(calendarID, fromEvent(ev)).Context(ctx)
		if len(ev.Attendees) > 0 {
			call = call.SendUpdates("all")
		}
		res, err := call.Do()
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		created = toEvent(res, c.loc)
		return nil
	})
	return created, err
}

// PatchEvent replaces the start and end of an event.
func (c *Client) PatchEvent(ctx context.Context, calendarID, eventID string, patch scheduling.EventPatch) (scheduling.Event, error) {
	var updated scheduling.Event
	err := c.observe(ctx, instrumentation.StoreOpPatch, calendarID, func(ctx context.Context) error {
		body := &calendar.Event{
			Start: eventDateTime(patch.Start, patch.TimeZone, patch.AllDay),
			End:   eventDateTime(patch.End, patch.TimeZone, patch.AllDay),
		}
		res, err := c.svc.Events.Patch(calendarID, eventID, body).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to patch event: %w", err)
		}
		updated = toEvent(res, c.loc)
		return nil
	})
	return updated, err
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return c.observe(ctx, instrumentation.StoreOpDelete, calendarID, func(ctx context.Context) error {
		if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
}

// FreeBusy queries busy intervals for the calendars within window.
// Calendars the API reports errors for are logged and left out.
func (c *Client) FreeBusy(ctx context.Context, calendarIDs []string, window scheduling.TimeInterval) (map[string][]scheduling.TimeInterval, error) {
	busy := make(map[string][]scheduling.TimeInterval, len(calendarIDs))
	err := c.observe(ctx, instrumentation.StoreOpFreeBusy, "", func(ctx context.Context) error {
		items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
		for i, id := range calendarIDs {
			items[i] = &calendar.FreeBusyRequestItem{Id: id}
		}
		res, err := c.svc.Freebusy.Query(&calendar.FreeBusyRequest{
			TimeMin: window.Start.Format(time.RFC3339),
			TimeMax: window.End.Format(time.RFC3339),
			Items:   items,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to query freebusy: %w", err)
		}

		for id, cal := range res.Calendars {
			if len(cal.Errors) > 0 {
				c.logger.Warn("freebusy calendar error",
					logging.Calendar(id), "reason", cal.Errors[0].Reason)
				continue
			}
			intervals := make([]scheduling.TimeInterval, 0, len(cal.Busy))
			for _, period := range cal.Busy {
				iv, err := parsePeriod(period)
				if err != nil {
					return err
				}
				intervals = append(intervals, iv)
			}
			busy[id] = intervals
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return busy, nil
}

// ListCalendars lists all calendars accessible to the user
func (c *Client) ListCalendars(ctx context.Context) ([]scheduling.CalendarInfo, error) {
	var calendars []scheduling.CalendarInfo
	err := c.observe(ctx, instrumentation.StoreOpCalendarList, "", func(ctx context.Context) error {
		return c.svc.CalendarList.List().Context(ctx).Pages(ctx, func(list *calendar.CalendarList) error {
			for _, entry := range list.Items {
				calendars = append(calendars, toCalendarInfo(entry))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return calendars, nil
}

// CreateCalendar creates a secondary calendar in timeZone.
func (c *Client) CreateCalendar(ctx context.Context, summary, timeZone string) (scheduling.CalendarInfo, error) {
	var info scheduling.CalendarInfo
	err := c.observe(ctx, instrumentation.StoreOpCalendarCreate, "", func(ctx context.Context) error {
		created, err := c.svc.Calendars.Insert(&calendar.Calendar{
			Summary:  summary,
			TimeZone: timeZone,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to create calendar: %w", err)
		}
		info = scheduling.CalendarInfo{
			ID:         created.Id,
			Summary:    created.Summary,
			TimeZone:   created.TimeZone,
			AccessRole: "owner",
		}
		return nil
	})
	return info, err
}

// SetCalendarColor sets the calendar list color of calendarID.
func (c *Client) SetCalendarColor(ctx context.Context, calendarID, colorID string) error {
	return c.observe(ctx, instrumentation.StoreOpCalendarPatch, calendarID, func(ctx context.Context) error {
		_, err := c.svc.CalendarList.Patch(calendarID, &calendar.CalendarListEntry{ColorId: colorID}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to set calendar color: %w", err)
		}
		return nil
	})
}
