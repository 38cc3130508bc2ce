// Package logging assembles structured slog loggers used across moviepipe.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes helpers so pipeline code tags lines with the run id,
// the record row and the component that produced them. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
