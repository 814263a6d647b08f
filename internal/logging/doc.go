// Package logging assembles structured slog loggers and formatting helpers used
// across recode.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code can tag log
// lines with run identifiers, file paths, and stages. Console output is
// coloured only when it goes to a terminal; the log file always receives
// plain text. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
package logging
