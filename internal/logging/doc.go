// Package logging configures slog output for the CLI and pipeline.
//
// Two handler formats are supported: a human-oriented console format used
// when stdout is a terminal, and line-delimited JSON for log files and
// machine consumption. Context carriers from internal/services (entry hash,
// stage, run id) are surfaced as standard structured fields.
package logging
