package phones

import (
	"strings"

	"phonalign/internal/config"
	"phonalign/internal/textgrid"
)

// Phone is one aligned phone interval in seconds.
type Phone struct {
	Label string
	Start float64
	End   float64
}

// Duration returns the interval length in seconds.
func (p Phone) Duration() float64 {
	return p.End - p.Start
}

// FromTier extracts phones from an aligner tier. Blank intervals and any
// label in dropLabels (case-insensitive, typically "spn" for unknown
// speech) are skipped; kept labels are uppercased.
func FromTier(tier *textgrid.Tier, dropLabels []string) []Phone {
	if tier == nil {
		return nil
	}

	drop := make(map[string]struct{}, len(dropLabels))
	for _, label := range dropLabels {
		drop[strings.ToLower(strings.TrimSpace(label))] = struct{}{}
	}

	var out []Phone
	for _, interval := range tier.NonEmptyIntervals() {
		label := strings.TrimSpace(interval.Text)
		if _, skip := drop[strings.ToLower(label)]; skip {
			continue
		}
		out = append(out, Phone{
			Label: strings.ToUpper(label),
			Start: interval.XMin,
			End:   interval.XMax,
		})
	}
	return out
}

// ReleaseSchwa returns the schwa label inserted after word-final plosives
// for a phone set profile.
func ReleaseSchwa(profile string) string {
	if profile == config.ProfileMFA {
		return "ɛ"
	}
	return "EH"
}
