// Package logging assembles structured slog loggers and formatting helpers
// used across statsweep.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so detection and cleanup code emit
// log lines with a consistent shape. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// logs with the same format and routing.
package logging
