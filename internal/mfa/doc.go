// Package mfa wraps the Montreal Forced Aligner command line tool. One
// align invocation covers the whole corpus directory, which keeps a batch
// run down to a single model load.
package mfa
