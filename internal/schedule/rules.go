package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/schoolcal/internal/event"
	"github.com/teemow/schoolcal/internal/schoolyear"
)

const (
	monthNames = `(January|February|March|April|May|June|July|August|September|October|November|December)`
	// anyMonth additionally accepts three-letter abbreviations, used for
	// the end month of cross-month ranges ("November 26 – Dec. 1").
	anyMonth = `(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`
	dayName  = `(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)`
)

var (
	reDayNameDate  = regexp.MustCompile(`(?i)^` + dayName + `,?\s+` + monthNames + `\s+(\d{1,2}),?\s*(\d{4})?`)
	reRangeAmp     = regexp.MustCompile(`(?i)^` + monthNames + `\s+(\d{1,2})\s*&\s*(\d{1,2}),?\s*(\d{4})?\s*[–-]\s*(.+)$`)
	reRangeDash    = regexp.MustCompile(`(?i)^` + monthNames + `\s+(\d{1,2})\s*[–-]\s*(\d{1,2}),?\s*(\d{4})?\s*[–-]\s*(.+)$`)
	reCrossMonth   = regexp.MustCompile(`(?i)^` + monthNames + `\s+(\d{1,2})\s*[–-]\s*` + anyMonth + `\.?\s*(\d{1,2}),?\s*(\d{4})?\s*[–-]\s*(.+)$`)
	reSingleDate   = regexp.MustCompile(`(?i)^` + monthNames + `\s+(\d{1,2}),?\s*(\d{4})?\s*[–-]\s*(.+)$`)
	reStandalone   = regexp.MustCompile(`(?i)^` + monthNames + `\s+(\d{1,2}),?\s*(\d{4})?$`)
	reMonthAtStart = regexp.MustCompile(`(?i)^` + monthNames)
	reBareNumber   = regexp.MustCompile(`^\d+,?$`)
	reAnyMonth     = regexp.MustCompile(`(?i)` + monthNames)
)

// noiseMarkers identify informational lines that never describe an event.
var noiseMarkers = []string{
	"School Calendar", // document title banner
	"Report Card",
	"Published",
	"Approved by",
}

// headingMarkers identify descriptive headings that name a group of dates.
var headingMarkers = []string{
	"Early Release",
	"First Day of School",
	"Last Day of School",
}

// rule is a single recognizer. apply reports whether the line was consumed;
// the first consuming rule wins.
type rule struct {
	name  string
	apply func(p *Parser, st *state, line string) bool
}

// rules is the recognition cascade, evaluated top to bottom per line.
var rules = []rule{
	{"noise", applyNoise},
	{"section-header", applySectionHeader},
	{"heading", applyHeading},
	{"day-name-date", applyDayNameDate},
	{"range-ampersand", applyRangeAmp},
	{"range-dash", applyRangeDash},
	{"range-cross-month", applyCrossMonth},
	{"single-date", applySingleDate},
	{"standalone-date", applyStandalone},
}

func applyNoise(p *Parser, st *state, line string) bool {
	for _, marker := range noiseMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	// Quarterly report schedule lines mention a quarter and a report date.
	if strings.Contains(line, "Quarter") && strings.Contains(line, "Report") {
		return true
	}
	return false
}

// applySectionHeader consumes underscore-ruled section headers, remembering
// the trailing text as the fallback title for subsequent bare dates.
func applySectionHeader(p *Parser, st *state, line string) bool {
	if !strings.HasPrefix(line, "_____") {
		return false
	}
	if text := strings.TrimSpace(strings.ReplaceAll(line, "_____", "")); text != "" {
		st.section = text
	}
	return true
}

// applyHeading treats descriptive headings as the current section. A
// heading that also mentions a month may carry a date of its own, so the
// line is only consumed when no month name appears on it.
func applyHeading(p *Parser, st *state, line string) bool {
	for _, marker := range headingMarkers {
		if strings.Contains(line, marker) {
			st.section = line
			return !reAnyMonth.MatchString(line)
		}
	}
	return false
}

// applyDayNameDate handles "Wednesday, September 24, 2025". The line names
// no event itself, so the current section supplies the title.
func applyDayNameDate(p *Parser, st *state, line string) bool {
	m := reDayNameDate.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if st.section == "" {
		return true
	}
	if date, ok := p.resolveDate(m[2], m[3], m[4], st); ok {
		st.emit(st.section, date, line)
	}
	return true
}

// applyRangeAmp handles "September 3 & 4, 2025 – Description", one event
// per day in the range.
func applyRangeAmp(p *Parser, st *state, line string) bool {
	m := reRangeAmp.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.emitDayRange(st, m[1], m[2], m[3], m[4], m[5], line)
	return true
}

// applyRangeDash handles "September 3 – 4, 2025 – Description".
func applyRangeDash(p *Parser, st *state, line string) bool {
	m := reRangeDash.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.emitDayRange(st, m[1], m[2], m[3], m[4], m[5], line)
	return true
}

// applyCrossMonth handles "November 26 – December 1 – Description",
// expanding one event per calendar day from start to end inclusive.
func applyCrossMonth(p *Parser, st *state, line string) bool {
	m := reCrossMonth.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	startMonth, endMonth := m[1], m[3]
	startDay, _ := strconv.Atoi(m[2])
	endDay, _ := strconv.Atoi(m[4])
	desc := strings.TrimSpace(m[6])

	// The year is resolved from the start month only, reproducing the
	// source behavior; a December–January range therefore lands entirely
	// in the year December resolves to.
	year := p.yearFor(startMonth, m[5])

	start, okStart := civilDate(year, schoolyear.MonthNumber(startMonth), startDay, &st.stats)
	end, okEnd := civilDate(year, schoolyear.MonthNumber(endMonth), endDay, &st.stats)
	if !okStart || !okEnd {
		return true
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		st.emit(desc, d, line)
	}
	return true
}

// applySingleDate handles "October 10, 2025 – Description". Lines whose
// "description" starts another date token are mis-parses and are skipped.
func applySingleDate(p *Parser, st *state, line string) bool {
	m := reSingleDate.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	desc := strings.TrimSpace(m[4])
	if reMonthAtStart.MatchString(desc) || reBareNumber.MatchString(desc) {
		return true
	}
	if date, ok := p.resolveDate(m[1], m[2], m[3], st); ok {
		st.emit(desc, date, line)
	}
	return true
}

// applyStandalone handles a bare "November 11, 2025" line; it only fires
// when a section header has provided a title.
func applyStandalone(p *Parser, st *state, line string) bool {
	m := reStandalone.FindStringSubmatch(line)
	if m == nil || st.section == "" {
		return false
	}
	if date, ok := p.resolveDate(m[1], m[2], m[3], st); ok {
		st.emit(st.section, date, line)
	}
	return true
}

// emitDayRange expands "Month D1 .. D2" into one event per day.
func (p *Parser) emitDayRange(st *state, month, startDay, endDay, yearStr, desc, line string) {
	year := p.yearFor(month, yearStr)
	startD, _ := strconv.Atoi(startDay)
	endD, _ := strconv.Atoi(endDay)
	title := strings.TrimSpace(desc)

	for d := startD; d <= endD; d++ {
		date, ok := civilDate(year, schoolyear.MonthNumber(month), d, &st.stats)
		if !ok {
			continue
		}
		st.emit(title, date, line)
	}
}

// resolveDate turns matched month/day/optional-year groups into a date.
func (p *Parser) resolveDate(month, day, yearStr string, st *state) (time.Time, bool) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	return civilDate(p.yearFor(month, yearStr), schoolyear.MonthNumber(month), d, &st.stats)
}

// yearFor returns the explicit year when the line carried one, otherwise
// the academic-year resolution for the month.
func (p *Parser) yearFor(month, yearStr string) int {
	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			return y
		}
	}
	return schoolyear.ResolveName(month, p.startYear)
}

// civilDate validates a calendar date, counting failures so they surface
// in aggregate.
func civilDate(year int, month time.Month, day int, stats *Stats) (time.Time, bool) {
	date, ok := event.CivilDate(year, month, day)
	if !ok {
		stats.BadDates++
		return time.Time{}, false
	}
	return date, true
}
