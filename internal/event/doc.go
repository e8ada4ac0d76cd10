// Package event defines the canonical calendar event produced by both
// extraction pipelines, the shared title-cleanup rules, and the ordering and
// grouping helpers used for review output and deterministic serialization.
package event
