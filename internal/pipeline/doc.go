// Package pipeline orchestrates the alignment workflow: preparing corpus
// files per entry, one batch aligner run, and per-entry export of the
// resulting phoneme segments.
package pipeline
