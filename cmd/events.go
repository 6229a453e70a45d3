package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/scheduling"
)

// searchSummaryWidth is how much of a description search results show.
const searchSummaryWidth = 80

func newListCmd() *cobra.Command {
	var req scheduling.ListRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events around now",
		Long: `List events on the assistant calendar. Events that have already ended
are marked with a check.

With --digest the window is the week ahead on Mondays and the rest of
today on other days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				svc, err := a.schedulingService(ctx, nil)
				if err != nil {
					return err
				}
				res, err := svc.List(ctx, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), res)
				}
				writeList(cmd.OutOrStdout(), res, req, svc.Now(), svc.Location())
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&req.DaysBack, "days-back", 3, "Days in the past to include")
	cmd.Flags().IntVar(&req.DaysAhead, "days-ahead", 7, "Days ahead to include")
	cmd.Flags().BoolVar(&req.Digest, "digest", false, "Week ahead on Mondays, today otherwise")

	return cmd
}

func writeList(w io.Writer, res *scheduling.ListResult, req scheduling.ListRequest, now time.Time, loc *time.Location) {
	switch {
	case req.Digest && res.Weekly:
		fmt.Fprintln(w, "Week ahead:")
	case req.Digest:
		fmt.Fprintln(w, "Today:")
	default:
		fmt.Fprintf(w, "Assistant calendar, past %dd / next %dd (%s)\n", req.DaysBack, req.DaysAhead, loc)
	}
	if len(res.Events) == 0 {
		fmt.Fprintln(w, "No events.")
		return
	}
	fmt.Fprintln(w)
	for _, ev := range res.Events {
		fmt.Fprintf(w, "%s%s  %s\n", pastMarker(ev, now), formatWhen(ev, loc), ev.Title)
		fmt.Fprintf(w, "    id: %s\n", shortID(ev.ID))
	}
}

func newSearchCmd() *cobra.Command {
	var req scheduling.SearchRequest

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search events by text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Query = args[0]
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				svc, err := a.schedulingService(ctx, nil)
				if err != nil {
					return err
				}
				events, err := svc.Search(ctx, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					if events == nil {
						events = []scheduling.Event{}
					}
					return printJSON(cmd.OutOrStdout(), events)
				}
				writeSearch(cmd.OutOrStdout(), req.Query, events, svc.Now(), svc.Location())
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&req.DaysBack, "days-back", scheduling.DefaultSearchDaysBack, "Days in the past to search")
	cmd.Flags().IntVar(&req.DaysAhead, "days-ahead", scheduling.DefaultSearchDaysAhead, "Days ahead to search")

	return cmd
}

func writeSearch(w io.Writer, query string, events []scheduling.Event, now time.Time, loc *time.Location) {
	if len(events) == 0 {
		fmt.Fprintf(w, "No events found matching %q.\n", query)
		return
	}
	fmt.Fprintf(w, "Search: %q, %d result(s)\n\n", query, len(events))
	for _, ev := range events {
		fmt.Fprintf(w, "%s%s  %s\n", pastMarker(ev, now), formatWhen(ev, loc), ev.Title)
		if summary := scheduling.Summary(ev.Description, searchSummaryWidth); summary != "" {
			fmt.Fprintf(w, "    %s\n", summary)
		}
	}
}

func newAddCmd() *cobra.Command {
	var (
		req       scheduling.AddRequest
		attendees string
		reminder  int
		duration  int
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Long: `Add an event to the assistant calendar.

Duration, color, reminder, recurrence and target calendar come from the
first matching preference rule unless given as flags. Start and end accept
exact timestamps ("2025-06-12 14:00") or phrases like "tomorrow 3pm".
Conflicts and work-hour boundaries are shown before anything is booked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("reminder") {
				req.ReminderMinutes = &reminder
			}
			if cmd.Flags().Changed("duration") {
				req.DurationMinutes = &duration
			}
			req.Attendees = parseCommaSeparatedList(attendees)
			req.Confirmed = assumeYes

			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				svc, err := a.schedulingService(ctx, a.prompt(cmd))
				if err != nil {
					return err
				}
				res, err := svc.Add(ctx, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), res)
				}
				writeAdded(cmd.OutOrStdout(), res, assumeYes)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&req.Start, "start", "", "Start time (required)")
	cmd.Flags().StringVar(&req.End, "end", "", "End time (default: start plus the preferred duration)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Event description")
	cmd.Flags().StringVar(&req.TimeZone, "timezone", "", "IANA time zone (default: configured zone)")
	cmd.Flags().StringVar(&req.Color, "color", "", "Color name, e.g. green or bold_red")
	cmd.Flags().IntVar(&reminder, "reminder", 0, "Reminder in minutes before the event")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")
	cmd.Flags().StringVar(&req.Recurrence, "recurrence", "", "RRULE, e.g. RRULE:FREQ=WEEKLY;BYDAY=MO")
	cmd.Flags().StringVar(&attendees, "attendees", "", "Comma-separated attendee emails (sends invitations)")
	cmd.Flags().IntVar(&req.PrepMinutes, "prep-minutes", 0, "Add a prep block of this many minutes before the event")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmations")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func writeAdded(w io.Writer, res *scheduling.AddResult, showWarnings bool) {
	loc, err := time.LoadLocation(res.Preview.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	ev := res.Event
	fmt.Fprintf(w, "Added: %s\n", ev.Title)
	fmt.Fprintf(w, "  When     : %s (%s)\n", formatWhen(ev, loc), res.Preview.TimeZone)
	fmt.Fprintf(w, "  Calendar : %s\n", res.Preview.CalendarID)
	if kw, ok := res.Preview.Preference.Matched(); ok {
		fmt.Fprintf(w, "  Pref     : used %q preference\n", kw)
	}
	if len(ev.Attendees) > 0 {
		fmt.Fprintf(w, "  Invited  : %s\n", strings.Join(ev.Attendees, ", "))
	}
	if ev.HTMLLink != "" {
		fmt.Fprintf(w, "  Link     : %s\n", ev.HTMLLink)
	}
	if showWarnings {
		for _, warn := range res.Preview.Warnings {
			fmt.Fprintf(w, "  Note     : %s\n", warn)
		}
	}
	switch {
	case res.Prep != nil:
		fmt.Fprintf(w, "  Prep     : %s-%s\n", res.Prep.Start.In(loc).Format(clockLayout), res.Prep.End.In(loc).Format(clockLayout))
	case res.PrepErr != nil:
		fmt.Fprintf(w, "  Prep     : not added: %v\n", res.PrepErr)
	}
}

func newDeleteCmd() *cobra.Command {
	var req scheduling.DeleteRequest

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an event found by title",
		Long: `Delete an event found by title within the past week and the next 90
days. When several events match you are asked to pick one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				svc, err := a.schedulingService(ctx, a.prompt(cmd))
				if err != nil {
					return err
				}
				ev, err := svc.Delete(ctx, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), ev)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", ev.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Title text to search for")
	cmd.Flags().StringVar(&req.EventID, "event-id", "", "Event id or id prefix")
	cmd.Flags().BoolVarP(&req.Confirmed, "yes", "y", false, "Skip the confirmation")
	cmd.MarkFlagsOneRequired("title", "event-id")

	return cmd
}

func newRescheduleCmd() *cobra.Command {
	var (
		title     string
		eventID   string
		date      string
		shift     string
		newStart  string
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "reschedule",
		Short: "Move one event or every event of a day",
		Long: `Move one event found by --title (or --event-id) by a --shift such as
+1h, -30m or +1d, or to a --new-start. The duration and the event's own
time zone are kept.

With --date every event starting that day is shifted by --shift. Each event
is patched on its own; failures are reported without stopping the rest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" && title == "" && eventID == "" {
				return fmt.Errorf("provide --title or --event-id for one event, or --date for a whole day")
			}
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				svc, err := a.schedulingService(ctx, a.prompt(cmd))
				if err != nil {
					return err
				}
				if date != "" {
					return rescheduleDay(ctx, cmd.OutOrStdout(), svc, scheduling.BulkRescheduleRequest{
						Date:      date,
						Shift:     shift,
						Confirmed: assumeYes,
					})
				}
				res, err := svc.Reschedule(ctx, scheduling.RescheduleRequest{
					Title:     title,
					EventID:   eventID,
					Shift:     shift,
					NewStart:  newStart,
					Confirmed: assumeYes,
				})
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rescheduled: %s -> %s\n", res.Updated.Title, formatWhen(res.Updated, svc.Location()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title text of the event to move")
	cmd.Flags().StringVar(&eventID, "event-id", "", "Event id or id prefix")
	cmd.Flags().StringVar(&date, "date", "", "Shift every event on this day")
	cmd.Flags().StringVar(&shift, "shift", "", "Relative shift: +2h, -30m, +1d")
	cmd.Flags().StringVar(&newStart, "new-start", "", "Absolute new start, e.g. \"tomorrow 3pm\"")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation")
	cmd.MarkFlagsMutuallyExclusive("shift", "new-start")
	cmd.MarkFlagsMutuallyExclusive("date", "title")
	cmd.MarkFlagsMutuallyExclusive("date", "new-start")

	return cmd
}

func rescheduleDay(ctx context.Context, w io.Writer, svc *scheduling.Service, req scheduling.BulkRescheduleRequest) error {
	res, err := svc.RescheduleDay(ctx, req)
	if err != nil {
		return err
	}
	if jsonOutput {
		if err := printJSON(w, bulkReport(res)); err != nil {
			return err
		}
	} else {
		writeBulk(w, res, svc.Location())
	}
	if failed := len(res.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d events could not be rescheduled", failed, len(res.Items))
	}
	return nil
}

func writeBulk(w io.Writer, res *scheduling.BulkResult, loc *time.Location) {
	if len(res.Items) == 0 {
		fmt.Fprintf(w, "No events on %s.\n", res.Day.Format(dayLayout))
		return
	}
	fmt.Fprintf(w, "Bulk reschedule, %d event(s) on %s by %s\n", len(res.Items), res.Day.Format(dayLayout), res.Shift)
	for _, it := range res.Items {
		if it.Err != nil {
			fmt.Fprintf(w, "  failed  %s: %v\n", it.Move.Event.Title, it.Err)
			continue
		}
		fmt.Fprintf(w, "  ok      %s -> %s\n", it.Move.Event.Title, formatSpan(it.Move.To.Start, it.Move.To.End, loc))
	}
}

type bulkItemReport struct {
	Title string                  `json:"title"`
	ID    string                  `json:"id"`
	To    scheduling.TimeInterval `json:"to"`
	Error string                  `json:"error,omitempty"`
}

type bulkResultReport struct {
	Day       time.Time        `json:"day"`
	Shift     string           `json:"shift"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []bulkItemReport `json:"items"`
}

func bulkReport(res *scheduling.BulkResult) bulkResultReport {
	report := bulkResultReport{
		Day:       res.Day,
		Shift:     res.Shift.String(),
		Succeeded: res.Succeeded(),
		Failed:    len(res.Failed()),
		Items:     make([]bulkItemReport, 0, len(res.Items)),
	}
	for _, it := range res.Items {
		item := bulkItemReport{Title: it.Move.Event.Title, ID: it.Move.Event.ID, To: it.Move.To}
		if it.Err != nil {
			item.Error = it.Err.Error()
		}
		report.Items = append(report.Items, item)
	}
	return report
}

func newFreeCmd() *cobra.Command {
	var (
		req     scheduling.FreeRequest
		minutes int
	)

	cmd := &cobra.Command{
		Use:   "free",
		Short: "Show free slots within work hours",
		Long: `Show free time within work hours, merging the busy time of the
assistant calendar and the primary calendar. --date accepts today,
tomorrow, "this week", "next week" or a date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.MinDuration = time.Duration(minutes) * time.Minute
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				svc, err := a.schedulingService(ctx, nil)
				if err != nil {
					return err
				}
				res, err := svc.Free(ctx, req)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), res)
				}
				writeFree(cmd.OutOrStdout(), res, svc.Location())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Date, "date", "today", "Day or range to search")
	cmd.Flags().IntVar(&minutes, "duration", int(scheduling.DefaultMinSlot/time.Minute), "Minimum slot length in minutes")
	cmd.Flags().IntVar(&req.Days, "days", 0, "Number of days to search (overrides the range length)")

	return cmd
}

func writeFree(w io.Writer, res *scheduling.FreeResult, loc *time.Location) {
	minutes := int(res.MinDuration / time.Minute)
	fmt.Fprintf(w, "Free slots >= %dmin\n\n", minutes)
	found := false
	for _, day := range res.Days {
		if len(day.Slots) == 0 {
			continue
		}
		found = true
		fmt.Fprintf(w, "  %s (%s-%s):\n", day.Day.Format(dayLayout),
			day.Window.Start.In(loc).Format(clockLayout), day.Window.End.In(loc).Format(clockLayout))
		for _, s := range day.Slots {
			fmt.Fprintf(w, "    %s - %s  (%dmin free)\n",
				s.Start.In(loc).Format(clockLayout), s.End.In(loc).Format(clockLayout), int(s.Duration()/time.Minute))
		}
	}
	if !found {
		fmt.Fprintf(w, "No free slots >= %dmin found.\n", minutes)
	}
}
