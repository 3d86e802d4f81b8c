// Command phonalign drives the phoneme alignment pipeline: synthesize or
// import voice-keyed utterances, align them with the Montreal Forced
// Aligner, and export per-phoneme timing data.
package main
