package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/teemow/schoolcal/internal/event"
	"github.com/teemow/schoolcal/internal/logging"
)

// maxTitleLen caps event titles from the email pipeline.
const maxTitleLen = 80

// contextSnippetLen is how much surrounding text goes into the prompt per
// date.
const contextSnippetLen = 100

// TitleService produces a JSON completion for a prompt. Implemented by
// *ollama.Client; tests substitute fakes.
type TitleService interface {
	ChatJSON(ctx context.Context, prompt string) (string, error)
}

// Resolver turns the dates found in one email into events, asking the
// title service for short titles in a single batched call. The service is
// best-effort: every found date yields exactly one event no matter how the
// call goes, only the title quality varies.
type Resolver struct {
	svc    TitleService
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by the given title service.
func NewResolver(svc TitleService) *Resolver {
	return &Resolver{
		svc:    svc,
		logger: logging.WithSource(slog.Default(), "email"),
	}
}

// Resolve builds one event per found date. Title-service failures are
// logged and recovered via fallback titles.
func (r *Resolver) Resolve(ctx context.Context, em Email, dates []FoundDate) []event.Event {
	if len(dates) == 0 {
		return nil
	}

	titles := r.requestTitles(ctx, em, dates)

	events := make([]event.Event, 0, len(dates))
	for _, fd := range dates {
		title := titles[fd.ISO()]
		if title == "" {
			title = FallbackTitle(fd.Context, em.Subject)
		}
		title = truncate(title, maxTitleLen)

		// Cleanup is cosmetic here; a title the cleaner rejects must not
		// drop the date, so the uncleaned title stands in that case.
		if cleaned, ok := event.CleanTitle(title); ok {
			title = cleaned
		}

		ev := event.Event{
			Title:       title,
			Date:        fd.Date,
			Description: fd.Context + "\nSource: " + em.Filename,
			SourceLine:  fd.Context,
			SourceFile:  em.Filename,
		}
		if fd.Time != "" {
			if start, ok := clockOn(fd.Date, fd.Time); ok {
				end := start.Add(time.Hour)
				ev.StartTime = &start
				ev.EndTime = &end
			}
		}
		events = append(events, ev)
	}
	return events
}

// requestTitles performs the single batched title-service call for one
// email and decodes the date→title mapping. Any failure returns an empty
// map; the caller falls back per date.
func (r *Resolver) requestTitles(ctx context.Context, em Email, dates []FoundDate) map[string]string {
	if r.svc == nil {
		return nil
	}

	content, err := r.svc.ChatJSON(ctx, BuildPrompt(em.Subject, dates))
	if err != nil {
		r.logger.Warn("title service call failed, using fallback titles",
			logging.File(em.Filename), logging.Err(err))
		return nil
	}

	titles, err := decodeTitles(content)
	if err != nil {
		r.logger.Warn("title service returned malformed mapping, using fallback titles",
			logging.File(em.Filename), logging.Err(err))
		return nil
	}
	return titles
}

// BuildPrompt renders the batched title request for one email.
func BuildPrompt(subject string, dates []FoundDate) string {
	if subject == "" {
		subject = "Unknown"
	}

	var info strings.Builder
	for _, fd := range dates {
		timeStr := fd.Time
		if timeStr == "" {
			timeStr = "all-day"
		}
		fmt.Fprintf(&info, "- Date: %s, Time: %s, Context: %q\n", fd.ISO(), timeStr, truncate(fd.Context, contextSnippetLen))
	}

	shape := make([]string, 0, len(dates))
	for _, fd := range dates {
		shape = append(shape, fmt.Sprintf("%q: \"Event title\"", fd.ISO()))
	}

	return fmt.Sprintf(`Create a short descriptive calendar title for each event below.

Email Subject: %s

Events found:
%s
Return a JSON object mapping each date to a title:
{%s}

Rules:
- Include context (e.g., "MCAS", "Art Show", school name)
- Be concise (under 50 chars)
- Examples: "MCAS ELA Testing", "Art Show Kit Pickup", "Early Release Day"
`, subject, info.String(), strings.Join(shape, ", "))
}

// decodeTitles parses the service response: a JSON object mapping ISO date
// strings to titles, optionally nested under a "titles" key. Non-string
// values are skipped rather than failing the whole mapping.
func decodeTitles(content string) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, err
	}
	if nested, ok := raw["titles"].(map[string]any); ok {
		raw = nested
	}

	titles := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			titles[k] = s
		}
	}
	return titles, nil
}

var (
	fbSlashDate = regexp.MustCompile(`\d{1,2}/\d{1,2}(/\d{2,4})?`)
	fbMonthDate = regexp.MustCompile(`(?i)` + emailMonths + `\.?\s+\d{1,2}`)
	fbClock     = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*(am|pm)?`)
	fbAtClock   = regexp.MustCompile(`(?i)at\s+\d{1,2}\s*(am|pm)`)
	fbLeading   = regexp.MustCompile(`^[\s\-–:*•]+`)
	fbTrailing  = regexp.MustCompile(`[\s\-–:]+$`)
)

// FallbackTitle derives a deterministic title from a date's context line by
// stripping date and time tokens and surrounding punctuation. Very short
// remainders are prefixed with the email subject.
func FallbackTitle(context, subject string) string {
	title := context
	title = fbSlashDate.ReplaceAllString(title, "")
	title = fbMonthDate.ReplaceAllString(title, "")
	title = fbClock.ReplaceAllString(title, "")
	title = fbAtClock.ReplaceAllString(title, "")
	title = fbLeading.ReplaceAllString(title, "")
	title = fbTrailing.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	if len(title) < 5 && subject != "" {
		if title == "" {
			title = subject
		} else {
			title = subject + ": " + title
		}
	}
	if title == "" {
		title = "Event"
	}
	return title
}

// clockOn combines a civil date with an "HH:MM" clock string.
func clockOn(date time.Time, clock string) (time.Time, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
