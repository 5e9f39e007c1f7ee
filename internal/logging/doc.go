// Package logging assembles the structured slog loggers used across mediadup.
//
// It centralizes level and format plumbing (console for humans, JSON for
// machines), re-exports slog attribute constructors so call sites stay
// uniform, and provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
