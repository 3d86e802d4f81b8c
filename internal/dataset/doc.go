// Package dataset reads and writes the alignment.json interchange file and
// its per-entry phoneme exports.
package dataset
