// Package logging assembles structured slog loggers for gisflow.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so evaluation and API code can
// tag log lines with request IDs, document numbers, and workflow stages. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
