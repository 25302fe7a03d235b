// Package logging assembles structured slog loggers and formatting helpers used
// across sortbox.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers that tag log lines with the run
// identifier and organize root. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
