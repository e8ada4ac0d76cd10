package event

import (
	"regexp"
	"strings"
)

// minTitleLen is the minimum cleaned title length; anything shorter is
// parser noise, not an event name.
const minTitleLen = 3

var (
	leadingPunct = regexp.MustCompile(`^[-–:,]\s*`)
	innerSpace   = regexp.MustCompile(`\s+`)
	trailingYear = regexp.MustCompile(`\s*-?\s*\d{4}\s*$`)
)

// abbreviations maps school-name abbreviations to full names. Asterisk-
// prefixed forms come before the bare token so that "*FH" is consumed
// whole and not left with a dangling asterisk.
var abbreviations = []struct {
	pattern *regexp.Regexp
	full    string
}{
	{regexp.MustCompile(`\*FH\b`), "Fox Hill"},
	{regexp.MustCompile(`\bFH\b`), "Fox Hill"},
	{regexp.MustCompile(`\*PG\b`), "Pine Glen"},
	{regexp.MustCompile(`\bPG\b`), "Pine Glen"},
	{regexp.MustCompile(`\*MEM\b`), "Memorial"},
	{regexp.MustCompile(`\bMEM\b`), "Memorial"},
	{regexp.MustCompile(`\*FW\b`), "Francis Wyman"},
	{regexp.MustCompile(`\bFW\b`), "Francis Wyman"},
}

var dayNames = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// CleanTitle normalizes a raw event title: leading dash/colon/comma
// punctuation is stripped, whitespace collapsed, school abbreviations
// expanded, and a trailing 4-digit year fragment removed. It returns false
// when the result is rejected: under three characters, or exactly a
// day-of-week name. Cleanup is idempotent.
func CleanTitle(raw string) (string, bool) {
	title := strings.TrimSpace(raw)
	if len(title) < minTitleLen {
		return "", false
	}

	title = leadingPunct.ReplaceAllString(title, "")
	title = innerSpace.ReplaceAllString(title, " ")
	title = ExpandAbbreviations(title)
	title = trailingYear.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	if dayNames[strings.ToLower(title)] {
		return "", false
	}
	if len(title) < minTitleLen {
		return "", false
	}
	return title, true
}

// ExpandAbbreviations replaces known school-name abbreviations with their
// full names, on token boundaries only.
func ExpandAbbreviations(s string) string {
	for _, a := range abbreviations {
		s = a.pattern.ReplaceAllString(s, a.full)
	}
	return s
}
