// Package config loads, normalizes, and validates the TOML configuration
// that drives the alignment pipeline.
package config
