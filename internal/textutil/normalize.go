package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// punctReplacer maps typographic punctuation onto the ASCII forms the
// aligner dictionaries know about.
var punctReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	" ", " ",
	"…", "...",
)

// NormalizeTranscript prepares text for a .lab file: NFC normalization,
// typographic punctuation folded to ASCII, control characters stripped, and
// whitespace collapsed to single spaces.
func NormalizeTranscript(text string) string {
	text = norm.NFC.String(text)
	text = punctReplacer.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
			// skip
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
