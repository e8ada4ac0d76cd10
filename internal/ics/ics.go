package ics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/teemow/schoolcal/internal/event"
)

const productID = "-//schoolcal//School Calendar Extractor//EN"

// Writer builds iCalendar files from extracted events.
type Writer struct {
	calendarName string
	location     *time.Location

	// now is stubbed in tests for stable DTSTAMP values.
	now func() time.Time
}

// NewWriter returns a Writer that publishes events in the given timezone
// under the given calendar display name.
func NewWriter(calendarName string, location *time.Location) *Writer {
	if location == nil {
		location = time.UTC
	}
	return &Writer{
		calendarName: calendarName,
		location:     location,
		now:          time.Now,
	}
}

// Serialize renders the events as an iCalendar document.
//
// Events without a start time become all-day events (DTEND is the following
// day, per RFC 5545 exclusive ends). Events with a start time are published
// as timed events in the writer's timezone.
func (w *Writer) Serialize(events []event.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(w.calendarName)
	cal.SetXWRTimezone(w.location.String())

	stamp := w.now().UTC()

	for _, ev := range events {
		ve := cal.AddEvent(eventUID(ev))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}

		if ev.AllDay() {
			ve.SetAllDayStartAt(ev.Date)
			ve.SetAllDayEndAt(ev.Date.AddDate(0, 0, 1))
			continue
		}

		ve.SetStartAt(w.wallClock(ev.Date, *ev.StartTime))
		end := *ev.StartTime
		if ev.EndTime != nil {
			end = *ev.EndTime
		}
		ve.SetEndAt(w.wallClock(ev.Date, end))
	}

	return cal.Serialize()
}

// WriteFile serializes the events and writes them to path, creating parent
// directories as needed.
func (w *Writer) WriteFile(path string, events []event.Event) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data := w.Serialize(events)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write calendar file: %w", err)
	}
	return nil
}

// wallClock pins a clock time from an extracted event onto its date in the
// writer's timezone.
func (w *Writer) wallClock(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, w.location)
}

func eventUID(ev event.Event) string {
	return fmt.Sprintf("school-event-%s-%s@schoolcal.local",
		ev.Date.Format("20060102"), uuid.NewString())
}
