// Package textutil provides transcript normalization and filename
// sanitization for the alignment corpus.
package textutil
