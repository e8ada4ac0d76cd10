// Package logging provides structured logging utilities for the schoolcal
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "schedule.parse")
//	logger.Info("document parsed",
//	    logging.Count(len(events)))
package logging
