package phones

import (
	"math"

	"phonalign/internal/config"
	"phonalign/internal/dataset"
)

// Options control postprocessing. All durations are in seconds.
type Options struct {
	MinDuration        float64
	MergeThreshold     float64
	AnticipationShift  float64
	InsertReleaseSchwa bool
	Schwa              string
}

// OptionsFromConfig converts the millisecond config values into seconds and
// picks the schwa label for the active phone set profile.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MinDuration:        float64(cfg.Postprocess.MinPhoneMs) / 1000,
		MergeThreshold:     float64(cfg.Postprocess.MergeThresholdMs) / 1000,
		AnticipationShift:  float64(cfg.Postprocess.AnticipationMs) / 1000,
		InsertReleaseSchwa: cfg.Postprocess.InsertReleaseSchwa,
		Schwa:              ReleaseSchwa(cfg.MFA.Profile),
	}
}

// Plosives whose word-final releases tend to be swallowed by the aligner.
var plosives = map[string]struct{}{
	"B": {}, "D": {}, "G": {}, "P": {}, "T": {}, "K": {},
}

// Postprocess cleans a phone sequence up for animation use. The steps run
// in a fixed order: schwa insertion, anticipation shift, tiny-phone merge,
// minimum duration enforcement.
func Postprocess(input []Phone, opts Options) []Phone {
	withSchwas := insertReleaseSchwas(input, opts)

	for i := range withSchwas {
		withSchwas[i].Start = math.Max(0, withSchwas[i].Start-opts.AnticipationShift)
	}

	merged := mergeTinyPhones(withSchwas, opts.MergeThreshold)
	enforceMinimumDuration(merged, opts.MinDuration)
	return merged
}

// insertReleaseSchwas adds a short schwa after each plosive that is followed
// by silence longer than the minimum phone duration. The last phone counts
// as followed by silence.
func insertReleaseSchwas(input []Phone, opts Options) []Phone {
	out := make([]Phone, 0, len(input))
	for i, p := range input {
		out = append(out, p)

		if !opts.InsertReleaseSchwa {
			continue
		}
		if _, isPlosive := plosives[p.Label]; !isPlosive {
			continue
		}

		gap := math.Inf(1)
		if i+1 < len(input) {
			gap = input[i+1].Start - p.End
		}
		if gap > opts.MinDuration {
			out = append(out, Phone{
				Label: opts.Schwa,
				Start: p.End,
				End:   p.End + opts.MinDuration,
			})
		}
	}
	return out
}

// mergeTinyPhones folds phones shorter than the threshold into their
// predecessor by extending the predecessor's end.
func mergeTinyPhones(input []Phone, threshold float64) []Phone {
	var out []Phone
	for _, p := range input {
		if len(out) > 0 && p.Duration() < threshold {
			out[len(out)-1].End = p.End
			continue
		}
		out = append(out, p)
	}
	return out
}

// enforceMinimumDuration stretches short phones to the minimum and pushes
// the following start forward when the stretch overlaps it.
func enforceMinimumDuration(input []Phone, minDuration float64) {
	for i := range input {
		if deficit := minDuration - input[i].Duration(); deficit > 0 {
			input[i].End += deficit
			if i+1 < len(input) && input[i+1].Start < input[i].End {
				input[i+1].Start = input[i].End
			}
		}
	}
}

// ToSegments converts phones into the exported segment shape, rounding
// times to the given number of decimals.
func ToSegments(input []Phone, decimals int) []dataset.PhonemeSegment {
	segments := make([]dataset.PhonemeSegment, 0, len(input))
	for _, p := range input {
		segments = append(segments, dataset.PhonemeSegment{
			CMU:   p.Label,
			Start: roundTo(p.Start, decimals),
			End:   roundTo(p.End, decimals),
		})
	}
	return segments
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(value*scale) / scale
}
