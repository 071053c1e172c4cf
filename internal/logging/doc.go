// Package logging builds the slog loggers used across the CLI and pipeline,
// with a compact console handler for interactive runs and JSON for log
// collection.
package logging
