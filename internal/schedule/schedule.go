package schedule

import (
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/schoolcal/internal/event"
	"github.com/teemow/schoolcal/internal/logging"
)

// SourceName is the provenance marker attached to document events.
const SourceName = "document"

// Stats aggregates parse counters for one document. Individual parse
// misses are recoverable by design and only surface here.
type Stats struct {
	Lines    int // non-empty lines seen
	Matched  int // lines consumed by a rule
	BadDates int // date strings that failed calendar validation
}

// Parser extracts events from calendar document text.
type Parser struct {
	startYear int
	logger    *slog.Logger
}

// NewParser creates a Parser for the given academic-year start.
func NewParser(startYear int) *Parser {
	return &Parser{
		startYear: startYear,
		logger:    logging.WithSource(slog.Default(), SourceName),
	}
}

// state is the accumulator threaded through the per-line rules: the current
// section header plus everything emitted so far.
type state struct {
	section string
	events  []event.Event
	stats   Stats
}

// Parse runs the recognizer cascade over the whole document text and
// returns the extracted events. Google Docs exports use vertical tabs as
// line breaks; those and tabs are normalized before scanning.
func (p *Parser) Parse(text string) ([]event.Event, Stats) {
	text = strings.ReplaceAll(text, "\x0b", "\n")
	text = strings.ReplaceAll(text, "\t", " ")

	st := &state{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		st.stats.Lines++

		for _, r := range rules {
			if r.apply(p, st, line) {
				st.stats.Matched++
				break
			}
		}
	}

	p.logger.Debug("document parsed",
		logging.Operation("schedule.parse"),
		logging.Count(len(st.events)),
		slog.Int("lines", st.stats.Lines),
		slog.Int("matched", st.stats.Matched),
		slog.Int("bad_dates", st.stats.BadDates),
	)
	return st.events, st.stats
}

// emit appends an event for the given date unless the title is rejected by
// cleanup.
func (st *state) emit(title string, date time.Time, line string) {
	ev, ok := event.New(title, date, line)
	if !ok {
		return
	}
	ev.SourceFile = SourceName
	st.events = append(st.events, ev)
}
