// Package ics renders calendar events as an iCalendar (RFC 5545) document.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/teemow/assistant/internal/scheduling"
)

// ProductID identifies the generator in exported files.
const ProductID = "-//teemow//assistant//EN"

// Options controls an export.
type Options struct {
	// Name becomes X-WR-CALNAME.
	Name string
	// TimeZone becomes X-WR-TIMEZONE.
	TimeZone string
	// Now stamps DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

// Build converts events into a calendar. Cancelled events keep their status.
func Build(events []scheduling.Event, opts Options) *ical.Calendar {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if opts.Name != "" {
		cal.SetName(opts.Name)
		cal.SetXWRCalName(opts.Name)
	}
	if opts.TimeZone != "" {
		cal.SetXWRTimezone(opts.TimeZone)
	}

	for _, ev := range events {
		addEvent(cal, ev, stamp)
	}
	return cal
}

func addEvent(cal *ical.Calendar, ev scheduling.Event, stamp time.Time) {
	ve := cal.AddEvent(uid(ev))
	ve.SetDtStampTime(stamp)
	ve.SetSummary(ev.Title)
	if ev.Description != "" {
		ve.SetDescription(ev.Description)
	}
	if ev.HTMLLink != "" {
		ve.SetURL(ev.HTMLLink)
	}

	if ev.AllDay {
		ve.SetAllDayStartAt(ev.Start)
		ve.SetAllDayEndAt(ev.End)
	} else {
		ve.SetStartAt(ev.Start.UTC())
		ve.SetEndAt(ev.End.UTC())
	}

	for _, rule := range ev.Recurrence {
		if r, ok := strings.CutPrefix(rule, "RRULE:"); ok {
			ve.AddRrule(r)
		}
	}
	for _, email := range ev.Attendees {
		ve.AddAttendee(email)
	}
	if ev.Status == "cancelled" {
		ve.SetStatus(ical.ObjectStatusCancelled)
	}
	for _, mins := range ev.ReminderMinutes {
		alarm := ve.AddAlarm()
		alarm.SetProperty(ical.ComponentPropertyAction, "DISPLAY")
		alarm.SetProperty(ical.ComponentPropertyDescription, ev.Title)
		alarm.SetProperty(ical.ComponentPropertyTrigger, fmt.Sprintf("-PT%dM", mins))
	}
}

// uid keeps exported events stable across exports.
func uid(ev scheduling.Event) string {
	if ev.ID == "" {
		return fmt.Sprintf("%d@assistant", ev.Start.Unix())
	}
	return ev.ID + "@assistant"
}

// Export writes events as an iCalendar document to w.
func Export(w io.Writer, events []scheduling.Event, opts Options) error {
	if err := Build(events, opts).SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}
