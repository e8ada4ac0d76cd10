// Package schedule extracts dated events from the school district's
// free-text calendar document.
//
// The document is processed line by line through an ordered list of
// recognizer rules; the first rule that consumes a line wins and unmatched
// lines are skipped. The only state carried across lines is the most recent
// section header, which serves as the fallback title for dates that appear
// without their own description.
package schedule
