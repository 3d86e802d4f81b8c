package textutil

import "testing"

func TestNormalizeTranscript(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "hello\t  world\n", "hello world"},
		{"folds curly quotes", "don’t say “hi”", `don't say "hi"`},
		{"folds dashes", "a—b c", "a-b c"},
		{"strips control characters", "he\x00llo", "hello"},
		{"trims edges", "  padded  ", "padded"},
		{"empty input", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTranscript(tc.in); got != tc.want {
				t.Fatalf("NormalizeTranscript(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTranscriptComposesNFC(t *testing.T) {
	// Base letter plus combining accent should compose to a single rune.
	in := "cafe\u0301"
	want := "caf\u00e9"
	if got := NormalizeTranscript(in); got != want {
		t.Fatalf("NormalizeTranscript(%q) = %q, want %q", in, got, want)
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"AH0":    "ah0",
		"ɛ":      "unknown",
		"T-Stop": "t-stop",
		"  ":     "unknown",
		"A B":    "a_b",
	}
	for in, want := range cases {
		if got := SanitizeToken(in); got != want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
