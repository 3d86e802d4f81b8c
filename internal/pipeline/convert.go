package pipeline

import (
	"encoding/json"
	"fmt"

	"phonalign/internal/dataset"
	"phonalign/internal/store"
)

// DatasetEntry rebuilds the dataset view of a catalog row, decoding the
// JSON alignment columns.
func DatasetEntry(entry *store.Entry) (dataset.Entry, error) {
	out := dataset.Entry{
		VoiceKeyHash: entry.VoiceKeyHash,
		Script:       entry.Script,
		VoiceID:      entry.VoiceID,
		AudioBase64:  entry.AudioBase64,
	}
	if entry.AlignmentJSON != "" {
		var alignment dataset.CharacterAlignment
		if err := json.Unmarshal([]byte(entry.AlignmentJSON), &alignment); err != nil {
			return dataset.Entry{}, fmt.Errorf("decode alignment column: %w", err)
		}
		out.Alignment = &alignment
	}
	if entry.NormalizedAlignmentJSON != "" {
		var normalized dataset.CharacterAlignment
		if err := json.Unmarshal([]byte(entry.NormalizedAlignmentJSON), &normalized); err != nil {
			return dataset.Entry{}, fmt.Errorf("decode normalized alignment column: %w", err)
		}
		out.NormalisedAlignment = &normalized
	}
	if entry.PhonemesJSON != "" {
		var alignment dataset.PhonemeAlignment
		if err := json.Unmarshal([]byte(entry.PhonemesJSON), &alignment); err != nil {
			return dataset.Entry{}, fmt.Errorf("decode phonemes column: %w", err)
		}
		out.PhonemeAlignment = &alignment
	}
	return out, nil
}

// StoreEntry builds a catalog row from a dataset entry, encoding the
// alignment payloads into their JSON columns.
func StoreEntry(entry dataset.Entry) (*store.Entry, error) {
	out := &store.Entry{
		VoiceKeyHash: entry.VoiceKeyHash,
		Script:       entry.Script,
		VoiceID:      entry.VoiceID,
		AudioBase64:  entry.AudioBase64,
	}
	if entry.Alignment != nil {
		data, err := json.Marshal(entry.Alignment)
		if err != nil {
			return nil, fmt.Errorf("encode alignment column: %w", err)
		}
		out.AlignmentJSON = string(data)
	}
	if entry.NormalisedAlignment != nil {
		data, err := json.Marshal(entry.NormalisedAlignment)
		if err != nil {
			return nil, fmt.Errorf("encode normalized alignment column: %w", err)
		}
		out.NormalizedAlignmentJSON = string(data)
	}
	return out, nil
}
