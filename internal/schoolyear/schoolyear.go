package schoolyear

import (
	"strings"
	"time"
)

var fallMonths = []string{"august", "september", "october", "november", "december"}

var springMonths = []string{"january", "february", "march", "april", "may", "june", "july"}

// ResolveName maps a month name to an absolute year given the calendar year
// in which the school year starts. August through December belong to the
// start year, January through July to the year after. Matching is
// case-insensitive and accepts full names as well as three-letter
// abbreviations (including "Sept").
//
// An unrecognized month name resolves to the unmodified start year. Callers
// only pass months their own patterns already matched, so in practice this
// path is unreachable.
func ResolveName(monthName string, startYear int) int {
	prefix := strings.ToLower(monthName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	for _, m := range fallMonths {
		if prefix == m[:3] {
			return startYear
		}
	}
	for _, m := range springMonths {
		if prefix == m[:3] {
			return startYear + 1
		}
	}
	return startYear
}

// Resolve maps a numeric month to an absolute year given the calendar year
// in which the school year starts.
func Resolve(month time.Month, startYear int) int {
	if month >= time.August {
		return startYear
	}
	return startYear + 1
}

// MonthNumber returns the month for a full or abbreviated month name, or 0
// if the name is not a month.
func MonthNumber(monthName string) time.Month {
	prefix := strings.ToLower(monthName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	for i := time.January; i <= time.December; i++ {
		if strings.ToLower(i.String()[:3]) == prefix {
			return i
		}
	}
	return 0
}
