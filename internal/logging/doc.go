// Package logging builds the slog loggers used across xposter.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log shipping. Helpers expose standardized attribute keys so
// queue item ids and drain correlation ids stay greppable across components.
package logging
