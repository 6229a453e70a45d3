package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/calendar"
	"github.com/teemow/assistant/internal/config"
	"github.com/teemow/assistant/internal/google"
	"github.com/teemow/assistant/internal/scheduling"
)

// setupCalendarColor is the calendar list color given to a new calendar.
const setupCalendarColor = "9"

func newSetupCmd() *cobra.Command {
	var (
		credentials  string
		calendarName string
		noBrowser    bool
		reauth       bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Authenticate with Google and choose the assistant calendar",
		Long: `Set up the assistant:

  1. Find credentials.json (an OAuth client of type "Desktop app" with the
     Google Calendar API enabled).
  2. Sign in with Google in the browser.
  3. Detect the local time zone.
  4. Use the calendar named --calendar-name, creating it when missing.

The result is saved to the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				if credentials != "" {
					a.cfg.Paths.Credentials = credentials
				}
				if calendarName == "" {
					calendarName = a.cfg.CalendarName
				}
				if calendarName == "" {
					calendarName = config.DefaultCalendarName
				}
				return runSetup(ctx, cmd.OutOrStdout(), a, calendarName, !noBrowser, reauth)
			})
		},
	}

	cmd.Flags().StringVar(&credentials, "credentials", "", "Path to credentials.json (default: search the usual places)")
	cmd.Flags().StringVar(&calendarName, "calendar-name", "", "Calendar to use or create (default: Assistant)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the sign-in URL instead of opening a browser")
	cmd.Flags().BoolVar(&reauth, "reauth", false, "Sign in again even when a token exists")

	return cmd
}

func runSetup(ctx context.Context, out io.Writer, a *app, calendarName string, openBrowser, reauth bool) error {
	candidates := google.CandidateCredentialPaths(a.cfg.Paths.Credentials, a.cfg.Dir())
	credPath, err := google.FindCredentials(candidates)
	if errors.Is(err, google.ErrNoCredentials) {
		fmt.Fprintln(out, "No credentials.json found. Steps:")
		fmt.Fprintln(out, "  1. https://console.cloud.google.com -> new project -> enable the Google Calendar API")
		fmt.Fprintln(out, "  2. Credentials -> create an OAuth 2.0 Client ID (Desktop) -> download the JSON")
		fmt.Fprintf(out, "  3. Save it to %s\n", candidates[0])
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Credentials: %s\n", credPath)

	conf, err := google.LoadOAuthConfig(credPath)
	if err != nil {
		return err
	}
	tokenFile := google.NewTokenFile(a.cfg.TokenPath())
	if reauth || !tokenFile.Exists() {
		flow := &google.AuthFlow{Config: conf, Out: out}
		if openBrowser {
			flow.OpenBrowser = google.OpenBrowser
		}
		tok, err := flow.Run(ctx)
		if err != nil {
			return err
		}
		if err := tokenFile.Save(tok); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "Google Calendar authenticated")

	tz := a.cfg.TimeZone
	if tz == "" {
		tz = config.DetectTimeZone(config.LocaltimePath)
	}
	fmt.Fprintf(out, "Time zone: %s\n", tz)

	client, err := a.calendarClient(ctx)
	if err != nil {
		return err
	}
	info, created, err := ensureCalendar(ctx, client, calendarName, tz)
	if err != nil {
		return err
	}
	if created {
		if err := client.SetCalendarColor(ctx, info.ID, setupCalendarColor); err != nil {
			a.logger.Debug("calendar color not set", "calendar", info.ID, "error", err)
		}
		fmt.Fprintf(out, "Created calendar %q\n", info.Summary)
	} else {
		fmt.Fprintf(out, "Using calendar %q\n", info.Summary)
	}

	a.cfg.CalendarID = info.ID
	a.cfg.CalendarName = info.Summary
	a.cfg.TimeZone = tz
	a.cfg.SetupAt = time.Now().UTC().Format(time.RFC3339)
	if err := a.cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", a.cfg.Path())
	fmt.Fprintln(out, "Next: run 'assistant profile --name ... --work-start 09:00' to set your work hours.")
	return nil
}

// calendarCreator is the part of calendar.Client setup needs.
type calendarCreator interface {
	ListCalendars(ctx context.Context) ([]scheduling.CalendarInfo, error)
	CreateCalendar(ctx context.Context, summary, timeZone string) (scheduling.CalendarInfo, error)
}

var _ calendarCreator = (*calendar.Client)(nil)

// ensureCalendar returns the calendar whose summary equals name
// (case-insensitive), creating it in tz when none exists.
func ensureCalendar(ctx context.Context, c calendarCreator, name, tz string) (scheduling.CalendarInfo, bool, error) {
	calendars, err := c.ListCalendars(ctx)
	if err != nil {
		return scheduling.CalendarInfo{}, false, err
	}
	for _, cal := range calendars {
		if strings.EqualFold(cal.Summary, name) {
			return cal, false, nil
		}
	}
	info, err := c.CreateCalendar(ctx, name, tz)
	if err != nil {
		return scheduling.CalendarInfo{}, false, err
	}
	return info, true, nil
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configured calendar, time zone and profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(_ context.Context, a *app) error {
				st := newStatus(a.cfg)
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), st)
				}
				writeStatus(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}
}

type status struct {
	Configured   bool                 `json:"configured"`
	CalendarID   string               `json:"calendar_id,omitempty"`
	CalendarName string               `json:"calendar_name,omitempty"`
	TimeZone     string               `json:"timezone,omitempty"`
	SetupAt      string               `json:"setup_at,omitempty"`
	Profile      config.ProfileConfig `json:"profile"`
	ConfigPath   string               `json:"config_path"`
}

func newStatus(cfg *config.Config) status {
	return status{
		Configured:   cfg.Configured(),
		CalendarID:   cfg.CalendarID,
		CalendarName: cfg.CalendarName,
		TimeZone:     cfg.TimeZone,
		SetupAt:      cfg.SetupAt,
		Profile:      cfg.Profile,
		ConfigPath:   cfg.Path(),
	}
}

func writeStatus(w io.Writer, st status) {
	if !st.Configured {
		fmt.Fprintf(w, "Not set up: %v\n", scheduling.ErrNotConfigured)
		return
	}
	tz := st.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	setupDay := st.SetupAt
	if len(setupDay) >= 10 {
		setupDay = setupDay[:10]
	}
	fmt.Fprintln(w, "Assistant calendar ready")
	fmt.Fprintf(w, "  Calendar : %s (%s)\n", st.CalendarName, st.CalendarID)
	fmt.Fprintf(w, "  Timezone : %s\n", tz)
	fmt.Fprintf(w, "  Set up   : %s\n", setupDay)
	name := st.Profile.PreferredName
	if name == "" {
		name = st.Profile.Name
	}
	if name == "" {
		fmt.Fprintln(w, "  Profile  : not set, run 'assistant profile --name ...'")
		return
	}
	fmt.Fprintf(w, "  Profile  : %s | %s-%s", name, st.Profile.WorkHours.Start, st.Profile.WorkHours.End)
	if st.Profile.WorkingStyle != "" {
		fmt.Fprintf(w, " | %s", st.Profile.WorkingStyle)
	}
	fmt.Fprintln(w)
}
