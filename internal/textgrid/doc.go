// Package textgrid parses Praat long-format TextGrid files, the output
// format of the Montreal Forced Aligner.
package textgrid
