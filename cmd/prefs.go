package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/config"
	"github.com/teemow/assistant/internal/preferences"
	"github.com/teemow/assistant/internal/profile"
)

func newMatchCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show the preferences an event title would get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(_ context.Context, a *app) error {
				doc, err := a.preferenceStore().Load()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), doc.Match(title, description))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newUpdatePrefsCmd() *cobra.Command {
	var (
		keyword  string
		update   preferences.Update
		duration int
		reminder int
	)

	cmd := &cobra.Command{
		Use:   "update-prefs",
		Short: "Create or update a preference rule",
		Long: `Create or update the rule owning a keyword. Events whose title or
description contains the keyword get the rule's duration, color, reminder,
calendar and recurrence. Only the given flags change an existing rule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("duration") {
				update.DurationMinutes = &duration
			}
			if cmd.Flags().Changed("reminder") {
				update.ReminderMinutes = &reminder
			}
			return runWithApp(cmd, func(_ context.Context, a *app) error {
				store := a.preferenceStore()
				doc, err := store.Load()
				if err != nil {
					return err
				}
				rule, created, err := doc.Upsert(keyword, update)
				if err != nil {
					return err
				}
				if err := store.Save(doc); err != nil {
					return err
				}
				a.logger.Info("preference saved", "keyword", keyword, "created", created)

				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), rule)
				}
				out := cmd.OutOrStdout()
				if created {
					fmt.Fprintf(out, "Created rule for %q:\n", keyword)
				} else {
					fmt.Fprintf(out, "Updated rule for %q:\n", keyword)
				}
				if err := printJSON(out, rule); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved to %s\n", store.Path())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&keyword, "match", "", "Keyword the rule matches (required)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")
	cmd.Flags().StringVar(&update.Color, "color", "", "Color name: "+strings.Join(preferences.ColorNames(), ", "))
	cmd.Flags().IntVar(&reminder, "reminder", 0, "Reminder in minutes before the event")
	cmd.Flags().StringVar(&update.CalendarName, "calendar-name", "", "Calendar name or id to add matching events to")
	cmd.Flags().StringVar(&update.Recurrence, "recurrence", "", "RRULE applied to matching events")
	_ = cmd.MarkFlagRequired("match")

	return cmd
}

// profileFlags holds the profile command's optional overrides.
type profileFlags struct {
	name          string
	preferredName string
	style         string
	workStart     string
	workEnd       string
	noBefore      string
	noAfter       string
	workDays      string
}

func newProfileCmd() *cobra.Command {
	var f profileFlags

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the work profile",
		Long: `Show the work profile, or update it when any flag is given. Work days
are weekday indexes where 0 is Monday.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(_ context.Context, a *app) error {
				if cmd.LocalNonPersistentFlags().NFlag() > 0 {
					p, err := a.cfg.WorkProfile()
					if err != nil {
						return err
					}
					if err := applyProfileFlags(cmd, &p, f); err != nil {
						return err
					}
					a.cfg.SetWorkProfile(p)
					if err := a.cfg.Save(); err != nil {
						return err
					}
					a.logger.Info("profile saved", "path", a.cfg.Path())
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), a.cfg.Profile)
				}
				writeProfile(cmd.OutOrStdout(), a.cfg.Profile)
				return nil
			})
		},
	}

	bindProfileFlags(cmd, &f)

	return cmd
}

func bindProfileFlags(cmd *cobra.Command, f *profileFlags) {
	cmd.Flags().StringVar(&f.name, "name", "", "Your name")
	cmd.Flags().StringVar(&f.preferredName, "preferred-name", "", "What the assistant calls you")
	cmd.Flags().StringVar(&f.style, "style", "", "Working style, free text")
	cmd.Flags().StringVar(&f.workStart, "work-start", "", "Start of work hours, HH:MM")
	cmd.Flags().StringVar(&f.workEnd, "work-end", "", "End of work hours, HH:MM")
	cmd.Flags().StringVar(&f.noBefore, "no-before", "", "Warn about events starting before HH:MM")
	cmd.Flags().StringVar(&f.noAfter, "no-after", "", "Warn about events starting after HH:MM")
	cmd.Flags().StringVar(&f.workDays, "work-days", "", "Comma-separated weekday indexes, 0=Monday")
}

func applyProfileFlags(cmd *cobra.Command, p *profile.WorkProfile, f profileFlags) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = f.name
	}
	if changed("preferred-name") {
		p.PreferredName = f.preferredName
	}
	if changed("style") {
		p.WorkingStyle = f.style
	}

	clocks := []struct {
		flag  string
		value string
		set   func(c *profile.Clock)
	}{
		{"work-start", f.workStart, func(c *profile.Clock) { p.WorkHours.Start = *c }},
		{"work-end", f.workEnd, func(c *profile.Clock) { p.WorkHours.End = *c }},
		{"no-before", f.noBefore, func(c *profile.Clock) { p.NoScheduleBefore = c }},
		{"no-after", f.noAfter, func(c *profile.Clock) { p.NoScheduleAfter = c }},
	}
	for _, c := range clocks {
		if !changed(c.flag) {
			continue
		}
		if c.value == "" {
			if c.flag == "no-before" || c.flag == "no-after" {
				c.set(nil)
				continue
			}
			return fmt.Errorf("--%s cannot be empty", c.flag)
		}
		clock, err := profile.ParseClock(c.value)
		if err != nil {
			return fmt.Errorf("--%s: %w", c.flag, err)
		}
		c.set(&clock)
	}

	if changed("work-days") {
		days, err := parseIntList(f.workDays)
		if err != nil {
			return fmt.Errorf("--work-days: %w", err)
		}
		p.WorkDays = days
	}
	return p.Validate()
}

func writeProfile(w io.Writer, p config.ProfileConfig) {
	name := p.PreferredName
	if name == "" {
		name = p.Name
	}
	if name == "" {
		name = "(not set)"
	}
	fmt.Fprintln(w, "Profile:")
	fmt.Fprintf(w, "  Name       : %s\n", name)
	fmt.Fprintf(w, "  Work hours : %s-%s\n", p.WorkHours.Start, p.WorkHours.End)
	fmt.Fprintf(w, "  Work days  : %s\n", formatWorkDays(p.WorkDays))
	if p.WorkingStyle != "" {
		fmt.Fprintf(w, "  Style      : %s\n", p.WorkingStyle)
	}
	if p.NoScheduleBefore != "" {
		fmt.Fprintf(w, "  No before  : %s\n", p.NoScheduleBefore)
	}
	if p.NoScheduleAfter != "" {
		fmt.Fprintf(w, "  No after   : %s\n", p.NoScheduleAfter)
	}
}

var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func formatWorkDays(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(weekdayNames) {
			names = append(names, weekdayNames[d])
		}
	}
	return strings.Join(names, " ")
}
