// Package logs provides file tailing helpers for the logs command.
//
// It reads trailing lines with bounded memory usage and supports follow mode
// by polling from the last read offset. Callers supply context cancellation
// so follow mode shuts down cleanly when the CLI exits.
package logs
