package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/schoolcal/internal/event"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func titlesByDate(events []event.Event) map[string]string {
	out := make(map[string]string, len(events))
	for _, ev := range events {
		out[ev.Date.Format("2006-01-02")] = ev.Title
	}
	return out
}

func TestParseFullDocument(t *testing.T) {
	text := `Burlington Public Schools
2025-2026 School Calendar
Approved by the School Committee
September 1, 2025 – Labor Day
September 3 & 4, 2025 – Kindergarten Orientation
October 9 – 10, 2025 – Parent Conferences
November 26 – December 1 – Thanksgiving Break
_____Early Release Days_____
Wednesday, September 24, 2025
October 22, 2025
`

	p := NewParser(2025)
	events, stats := p.Parse(text)

	assert.Equal(t, 10, stats.Lines)
	assert.Equal(t, 9, stats.Matched)
	assert.Equal(t, 0, stats.BadDates)
	require.Len(t, events, 13)

	byDate := titlesByDate(events)
	assert.Equal(t, "Labor Day", byDate["2025-09-01"])
	assert.Equal(t, "Kindergarten Orientation", byDate["2025-09-03"])
	assert.Equal(t, "Kindergarten Orientation", byDate["2025-09-04"])
	assert.Equal(t, "Parent Conferences", byDate["2025-10-09"])
	assert.Equal(t, "Parent Conferences", byDate["2025-10-10"])
	assert.Equal(t, "Early Release Days", byDate["2025-09-24"])
	assert.Equal(t, "Early Release Days", byDate["2025-10-22"])

	// Cross-month ranges expand one event per calendar day.
	for _, d := range []string{"2025-11-26", "2025-11-27", "2025-11-28", "2025-11-29", "2025-11-30", "2025-12-01"} {
		assert.Equal(t, "Thanksgiving Break", byDate[d], d)
	}
}

func TestParseAcademicYearInference(t *testing.T) {
	text := `October 13 – Columbus Day
January 19 – No School
`

	p := NewParser(2025)
	events, _ := p.Parse(text)
	require.Len(t, events, 2)

	assert.Equal(t, date(2025, time.October, 13), events[0].Date)
	assert.Equal(t, "Columbus Day", events[0].Title)
	assert.Equal(t, date(2026, time.January, 19), events[1].Date)
	assert.Equal(t, "No School", events[1].Title)
}

func TestParseExplicitYearWins(t *testing.T) {
	p := NewParser(2025)
	events, _ := p.Parse("January 5, 2027 – Makeup Day\n")
	require.Len(t, events, 1)
	assert.Equal(t, date(2027, time.January, 5), events[0].Date)
}

func TestParseVerticalTabLineBreaks(t *testing.T) {
	p := NewParser(2025)
	events, _ := p.Parse("September 1, 2025 – Labor Day\x0bOctober 13, 2025 – Columbus Day")
	require.Len(t, events, 2)
	assert.Equal(t, "Labor Day", events[0].Title)
	assert.Equal(t, "Columbus Day", events[1].Title)
}

func TestParseInvalidDateSkipped(t *testing.T) {
	p := NewParser(2025)
	events, stats := p.Parse("February 30, 2026 – Nonexistent Day\n")
	assert.Empty(t, events)
	assert.Equal(t, 1, stats.Matched)
	assert.Equal(t, 1, stats.BadDates)
}

func TestParseMisparseGuards(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"description is a bare number", "June 5 – 8"},
		{"description starts with a month", "October 6 – November Conferences"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(2025)
			events, _ := p.Parse(tt.line + "\n")
			assert.Empty(t, events)
		})
	}
}

func TestParseStandaloneDateNeedsSection(t *testing.T) {
	p := NewParser(2025)

	events, stats := p.Parse("November 11, 2025\n")
	assert.Empty(t, events)
	assert.Equal(t, 0, stats.Matched)

	events, _ = p.Parse("_____No School_____\nNovember 11, 2025\n")
	require.Len(t, events, 1)
	assert.Equal(t, "No School", events[0].Title)
	assert.Equal(t, date(2025, time.November, 11), events[0].Date)
}

func TestParseDescriptiveHeadingAsSection(t *testing.T) {
	text := `Early Release Wednesdays
Wednesday, September 24, 2025
Wednesday, October 29, 2025
`

	p := NewParser(2025)
	events, _ := p.Parse(text)
	require.Len(t, events, 2)
	assert.Equal(t, "Early Release Wednesdays", events[0].Title)
	assert.Equal(t, date(2025, time.September, 24), events[0].Date)
	assert.Equal(t, "Early Release Wednesdays", events[1].Title)
	assert.Equal(t, date(2025, time.October, 29), events[1].Date)
}

func TestParseNoiseLines(t *testing.T) {
	text := `2025-2026 School Calendar
Quarter 1 Report Cards Issued
Published October 2025
Approved by the School Committee
`

	p := NewParser(2025)
	events, stats := p.Parse(text)
	assert.Empty(t, events)
	assert.Equal(t, 4, stats.Matched)
}

func TestParseAbbreviationsInTitles(t *testing.T) {
	p := NewParser(2025)
	events, _ := p.Parse("October 2, 2025 – *FH Open House\n")
	require.Len(t, events, 1)
	assert.Equal(t, "Fox Hill Open House", events[0].Title)
}

func TestParseProvenance(t *testing.T) {
	p := NewParser(2025)
	events, _ := p.Parse("September 1, 2025 – Labor Day\n")
	require.Len(t, events, 1)
	assert.Equal(t, SourceName, events[0].SourceFile)
	assert.Equal(t, "September 1, 2025 – Labor Day", events[0].SourceLine)
}
