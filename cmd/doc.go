// Package cmd implements the command-line interface for schoolcal.
//
// This package provides the following commands:
//   - sync: Extract events from the school calendar document and local
//     email files, then write an iCalendar file
//   - auth: Authorize access to the Google Docs API and cache the token
//   - version: Display version information
//
// The sync command is the default command when no subcommand is specified.
package cmd
