package dataset

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// CharacterAlignment mirrors the character timing payload returned by the
// speech API: parallel arrays of characters and per-character start/end
// times in seconds.
type CharacterAlignment struct {
	Characters                 []string  `json:"characters"`
	CharacterStartTimesSeconds []float64 `json:"character_start_times_seconds"`
	CharacterEndTimesSeconds   []float64 `json:"character_end_times_seconds"`
}

// PhonemeSegment is one aligned phoneme: label plus start/end in seconds.
type PhonemeSegment struct {
	CMU   string  `json:"cmu"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// PhonemeAlignment is the result block written back onto an entry.
type PhonemeAlignment struct {
	Created   string           `json:"created"`
	Alignment []PhonemeSegment `json:"alignment"`
}

// Entry is one record in the alignment.json dataset file.
type Entry struct {
	VoiceKeyHash        string              `json:"voiceKeyHash"`
	Script              string              `json:"script,omitempty"`
	VoiceID             string              `json:"voiceId,omitempty"`
	AudioBase64         string              `json:"audioBase64,omitempty"`
	Alignment           *CharacterAlignment `json:"alignment,omitempty"`
	NormalisedAlignment *CharacterAlignment `json:"normalisedAlignment,omitempty"`
	PhonemeAlignment    *PhonemeAlignment   `json:"phonemeAlignment,omitempty"`
}

// VoiceKeyHash derives the stable entry key from a voice id and script.
func VoiceKeyHash(voiceID, script string) string {
	sum := sha256.Sum256([]byte(voiceID + ":" + script))
	return hex.EncodeToString(sum[:])
}

// Transcript builds the text the aligner should see: the normalised
// alignment characters joined, falling back to the raw script when no
// normalised alignment is present.
func (e *Entry) Transcript() string {
	if e.NormalisedAlignment != nil && len(e.NormalisedAlignment.Characters) > 0 {
		return strings.TrimSpace(strings.Join(e.NormalisedAlignment.Characters, ""))
	}
	return strings.TrimSpace(e.Script)
}

// DecodeAudio decodes the base64 audio payload.
func (e *Entry) DecodeAudio() ([]byte, error) {
	if e.AudioBase64 == "" {
		return nil, fmt.Errorf("entry %s has no audio payload", e.VoiceKeyHash)
	}
	data, err := base64.StdEncoding.DecodeString(e.AudioBase64)
	if err != nil {
		return nil, fmt.Errorf("decode audio for %s: %w", e.VoiceKeyHash, err)
	}
	return data, nil
}
