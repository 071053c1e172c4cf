// Package config loads, normalizes, and validates the TOML configuration for
// retake. Validation runs before any processing so misconfiguration never
// aborts a run midway.
package config
