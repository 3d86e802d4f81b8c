// Package phones models aligned phone intervals and the animation-oriented
// cleanup applied to them: release schwas after word-final plosives,
// anticipation shift, tiny-phone merging, and minimum duration enforcement.
package phones
