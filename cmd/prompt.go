package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/tasks"
)

// terminalPrompt asks the user on the terminal. It serves both the
// scheduling engine and the task manager.
type terminalPrompt struct {
	in  *bufio.Reader
	out io.Writer
	loc *time.Location
}

var (
	_ scheduling.Confirmer = (*terminalPrompt)(nil)
	_ tasks.Chooser        = (*terminalPrompt)(nil)
)

func newTerminalPrompt(in io.Reader, out io.Writer, loc *time.Location) *terminalPrompt {
	if loc == nil {
		loc = time.Local
	}
	return &terminalPrompt{in: bufio.NewReader(in), out: out, loc: loc}
}

func (p *terminalPrompt) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ask returns true only for y or yes.
func (p *terminalPrompt) ask(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// choose reads a 1-based choice and returns it 0-based. Anything that is
// not a number maps to -1, which cancels.
func (p *terminalPrompt) choose(n int) (int, error) {
	fmt.Fprintf(p.out, "Choose 1-%d (blank to cancel): ", n)
	answer, err := p.readLine()
	if err != nil {
		return -1, err
	}
	i, err := strconv.Atoi(answer)
	if err != nil {
		return -1, nil
	}
	return i - 1, nil
}

func (p *terminalPrompt) ConfirmConflicts(_ context.Context, preview scheduling.AddPreview) (bool, error) {
	fmt.Fprintf(p.out, "\nTime conflict, %d existing event(s):\n", len(preview.Conflicts))
	for _, c := range preview.Conflicts {
		fmt.Fprintf(p.out, "  - %s  %s\n", c.Title, formatWhen(c, p.loc))
	}
	return p.ask("Add anyway?")
}

func (p *terminalPrompt) ConfirmAdd(_ context.Context, preview scheduling.AddPreview) (bool, error) {
	writePreview(p.out, preview)
	return p.ask("Add this event?")
}

func (p *terminalPrompt) ChooseEvent(_ context.Context, query string, candidates []scheduling.Event) (int, error) {
	fmt.Fprintf(p.out, "Multiple matches for %q:\n", query)
	for i, ev := range candidates {
		fmt.Fprintf(p.out, "  %d. [%s] %s  %s\n", i+1, shortID(ev.ID), ev.Title, formatWhen(ev, p.loc))
	}
	return p.choose(len(candidates))
}

func (p *terminalPrompt) ConfirmReschedule(_ context.Context, moves []scheduling.PlannedMove) (bool, error) {
	if len(moves) == 1 {
		m := moves[0]
		fmt.Fprintf(p.out, "Rescheduling: %s\n", m.Event.Title)
		fmt.Fprintf(p.out, "  From: %s\n", formatWhen(m.Event, p.loc))
		fmt.Fprintf(p.out, "  To:   %s (%s)\n", formatSpan(m.To.Start, m.To.End, p.loc), m.TimeZone)
	} else {
		fmt.Fprintf(p.out, "Bulk reschedule, %d event(s):\n", len(moves))
		for _, m := range moves {
			fmt.Fprintf(p.out, "  - %s  %s -> %s\n", m.Event.Title,
				formatWhen(m.Event, p.loc), formatSpan(m.To.Start, m.To.End, p.loc))
		}
	}
	return p.ask("Proceed?")
}

func (p *terminalPrompt) ConfirmDelete(_ context.Context, ev scheduling.Event) (bool, error) {
	fmt.Fprintf(p.out, "Delete: %s (%s)\n", ev.Title, formatWhen(ev, p.loc))
	return p.ask("Delete this event?")
}

func (p *terminalPrompt) ChooseTask(_ context.Context, query string, candidates []tasks.Task) (int, error) {
	fmt.Fprintf(p.out, "Multiple tasks match %q:\n", query)
	for i, t := range candidates {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, taskLine(t))
	}
	return p.choose(len(candidates))
}

func (p *terminalPrompt) ConfirmTaskDelete(_ context.Context, t tasks.Task) (bool, error) {
	return p.ask(fmt.Sprintf("Delete task %q?", t.Title))
}

// writePreview prints what an add is about to create.
func writePreview(w io.Writer, preview scheduling.AddPreview) {
	loc, err := time.LoadLocation(preview.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	pref := preview.Preference

	fmt.Fprintln(w, "\nPreview")
	fmt.Fprintf(w, "  Title    : %s\n", preview.Title)
	fmt.Fprintf(w, "  When     : %s (%s)\n", formatSpan(preview.Start, preview.End, loc), preview.TimeZone)
	fmt.Fprintf(w, "  Calendar : %s\n", preview.CalendarID)
	fmt.Fprintf(w, "  Color    : %s\n", pref.Color)
	fmt.Fprintf(w, "  Reminder : %d min before\n", pref.ReminderMinutes)
	if preview.Recurrence != "" {
		fmt.Fprintf(w, "  Repeats  : %s\n", preview.Recurrence)
		for _, t := range preview.Occurrences {
			fmt.Fprintf(w, "             %s\n", t.In(loc).Format(dayLayout+" "+clockLayout))
		}
	}
	if len(preview.Attendees) > 0 {
		fmt.Fprintf(w, "  Invites  : %s (sends email invitations)\n", strings.Join(preview.Attendees, ", "))
	}
	if preview.PrepMinutes > 0 {
		fmt.Fprintf(w, "  Prep     : %d min prep block added before\n", preview.PrepMinutes)
	}
	if kw, ok := pref.Matched(); ok {
		fmt.Fprintf(w, "  Pref     : matched %q\n", kw)
	}
	for _, warn := range preview.Warnings {
		fmt.Fprintf(w, "  Note     : %s\n", warn)
	}
	fmt.Fprintln(w)
}
