package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteSegmentsFile writes the per-entry phoneme JSON export
// (<dir>/<hash>.json) and returns the written path.
func WriteSegmentsFile(dir, voiceKeyHash string, segments []PhonemeSegment) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create phonemes directory: %w", err)
	}

	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode phoneme export: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, voiceKeyHash+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write phoneme export: %w", err)
	}
	return path, nil
}

// ReadSegmentsFile loads a per-entry phoneme JSON export.
func ReadSegmentsFile(path string) ([]PhonemeSegment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phoneme export: %w", err)
	}
	var segments []PhonemeSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("parse phoneme export %s: %w", path, err)
	}
	return segments, nil
}
