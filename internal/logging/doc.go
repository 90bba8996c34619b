// Package logging assembles structured slog loggers and formatting helpers used
// across humspine.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so command code can tag log lines
// with the file being analyzed. The package also provides a no-op logger for
// library code that is handed no logger at all.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same keys.
package logging
