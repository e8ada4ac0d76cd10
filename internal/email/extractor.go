package email

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/schoolcal/internal/event"
	"github.com/teemow/schoolcal/internal/schoolyear"
)

// FoundDate is a recognized calendar date prior to title resolution.
type FoundDate struct {
	Date    time.Time
	Time    string // "HH:MM" 24-hour clock, empty for all-day
	Context string // the line the date was found on
}

// ISO returns the date as YYYY-MM-DD, the key used in title-service
// responses.
func (f FoundDate) ISO() string {
	return f.Date.Format("2006-01-02")
}

const emailMonths = `(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)`

var (
	// A clock time needs an explicit am/pm marker; bare numbers are not
	// times.
	reClockTime = regexp.MustCompile(`(?i)(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)

	// "March 30, 31" style: a month name followed by up to three
	// comma-separated day numbers.
	// The later groups capture up to four digits so that a trailing year
	// ("March 30, 31, 2026") is caught by the >31 guard below instead of
	// being misread as a day.
	reMonthDays = regexp.MustCompile(`(?i)` + emailMonths + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:\s*,\s*(\d{1,4}))?(?:\s*,\s*(\d{1,4}))?`)

	// "2/27" or "2/27/26" style numeric dates.
	reSlashDate = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
)

// ExtractDates finds every calendar date in free-form email text, tagging
// each with the clock time found on the same line (if any) and the line
// itself as context. Dates are de-duplicated by date only; the first
// occurrence wins.
func ExtractDates(text string, startYear int) []FoundDate {
	var found []FoundDate

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		clock := parseClockTime(line)

		for _, m := range reMonthDays.FindAllStringSubmatch(line, -1) {
			month := schoolyear.MonthNumber(m[1])
			if month == 0 {
				continue
			}
			found = appendDate(found, month, m[2], 0, clock, line, startYear)
			// Later day numbers above 31 are year fragments, not days.
			for _, dayStr := range []string{m[3], m[4]} {
				if dayStr == "" {
					continue
				}
				if d, err := strconv.Atoi(dayStr); err == nil && d <= 31 {
					found = appendDate(found, month, dayStr, 0, clock, line, startYear)
				}
			}
		}

		for _, m := range reSlashDate.FindAllStringSubmatch(line, -1) {
			monthNum, _ := strconv.Atoi(m[1])
			year := 0
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
				if year < 100 {
					year += 2000
				}
			}
			found = appendDate(found, time.Month(monthNum), m[2], year, clock, line, startYear)
		}
	}

	return dedupe(found)
}

// appendDate validates and appends one found date. A zero year is resolved
// through the academic-year convention.
func appendDate(found []FoundDate, month time.Month, dayStr string, year int, clock, context string, startYear int) []FoundDate {
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return found
	}
	if year == 0 {
		year = schoolyear.Resolve(month, startYear)
	}
	date, ok := event.CivilDate(year, month, day)
	if !ok {
		return found
	}
	return append(found, FoundDate{Date: date, Time: clock, Context: context})
}

// parseClockTime extracts the first clock time on a line as "HH:MM", or ""
// when the line has none.
func parseClockTime(line string) string {
	m := reClockTime.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// dedupe keeps the first FoundDate per calendar date, regardless of time or
// context.
func dedupe(found []FoundDate) []FoundDate {
	seen := make(map[string]bool, len(found))
	unique := make([]FoundDate, 0, len(found))
	for _, f := range found {
		key := f.ISO()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, f)
	}
	return unique
}
