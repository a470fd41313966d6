// Package logging assembles structured slog loggers and formatting helpers used
// across mp4convert.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so the walker, converter, and batch
// driver tag log lines with the same keys. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
