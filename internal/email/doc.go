// Package email extracts calendar events from locally saved school emails.
//
// Emails are plain .txt files, read privately from disk rather than from a
// mail provider. Dates are found with deterministic regular expressions and
// are the source of truth; a language model is consulted once per email to
// propose nicer titles, and any failure there degrades to a fallback title
// derived from the date's surrounding text. A found date always becomes an
// event.
package email
