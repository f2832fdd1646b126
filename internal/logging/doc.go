// Package logging assembles the structured slog loggers used by urlsort.
//
// It owns the console and JSON handlers, level and output plumbing, the
// run-id handler that tags every record of one invocation, and log file
// retention. Logs default to stderr so command output on stdout stays clean.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
