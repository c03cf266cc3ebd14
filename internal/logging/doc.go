// Package logging provides slog construction and shared structured-field
// conventions for curator components.
package logging
