// Package store persists alignment catalog entries in SQLite.
//
// Each entry corresponds to one synthesized clip, keyed by its voice key
// hash, and carries the clip through the pipeline lifecycle from pending to
// completed. The final phoneme alignment is stored alongside the source
// metadata so exports can be regenerated without re-running the aligner.
package store
