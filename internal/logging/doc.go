// Package logging assembles structured slog loggers and attribute helpers used
// across mixcrate services.
//
// It centralizes level parsing, console/JSON handler selection, and output
// plumbing, and provides a no-op logger for tests and wiring code that cannot
// fail. Prefer these constructors over hand-rolled slog setup so every
// component emits data with the same shape.
package logging
