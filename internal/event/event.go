package event

import (
	"sort"
	"time"
)

// Event is the canonical unit produced by both extraction pipelines.
// Dates are day-resolution; StartTime/EndTime are only set when a source
// line carried an explicit clock time.
type Event struct {
	Title string
	Date  time.Time // civil date at midnight UTC

	StartTime *time.Time
	EndTime   *time.Time

	// Description carries provenance context (surrounding line, email
	// subject, source file). Never shown as the event title.
	Description string

	// SourceLine / SourceFile are retained for debugging and audit.
	SourceLine string
	SourceFile string
}

// AllDay reports whether the event has no explicit clock time.
func (e Event) AllDay() bool {
	return e.StartTime == nil
}

// New builds an Event from a raw title, running the shared title cleanup.
// It returns false when the cleaned title is rejected (too short, or a bare
// day-of-week name), in which case the event must be discarded.
func New(rawTitle string, date time.Time, sourceLine string) (Event, bool) {
	title, ok := CleanTitle(rawTitle)
	if !ok {
		return Event{}, false
	}
	return Event{
		Title:      title,
		Date:       date,
		SourceLine: sourceLine,
	}, true
}

// CivilDate builds a day-resolution date, rejecting invalid day/month
// combinations instead of letting time.Date normalize them (February 30
// must not become March 2).
func CivilDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// SortChronological sorts events ascending by date, then by start time.
// The sort is stable so that extraction order breaks ties, which keeps
// serializer output deterministic.
func SortChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		si, sj := events[i].StartTime, events[j].StartTime
		switch {
		case si == nil && sj == nil:
			return false
		case si == nil:
			return true
		case sj == nil:
			return false
		default:
			return si.Before(*sj)
		}
	})
}

// MonthGroup is one month's worth of events, used by the review output.
type MonthGroup struct {
	Year   int
	Month  time.Month
	Events []Event
}

// GroupByMonth groups events by calendar month in chronological order,
// events within a month sorted ascending by date. Months follow the
// academic year, so August of the start year comes first.
func GroupByMonth(events []Event) []MonthGroup {
	byKey := make(map[time.Time][]Event)
	for _, ev := range events {
		key := time.Date(ev.Date.Year(), ev.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		byKey[key] = append(byKey[key], ev)
	}

	keys := make([]time.Time, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	groups := make([]MonthGroup, 0, len(keys))
	for _, k := range keys {
		evs := byKey[k]
		SortChronological(evs)
		groups = append(groups, MonthGroup{
			Year:   k.Year(),
			Month:  k.Month(),
			Events: evs,
		})
	}
	return groups
}
