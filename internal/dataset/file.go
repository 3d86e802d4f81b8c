package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ReadFile loads the entries from an alignment.json file. A missing file
// yields an empty slice so a fresh dataset can be built up incrementally.
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse dataset file %s: %w", path, err)
	}
	return entries, nil
}

// WriteFile writes the entries back to an alignment.json file, creating
// parent directories as needed. The write goes through a temp file and
// rename so a crash cannot leave a truncated dataset.
func WriteFile(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset file: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write dataset file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace dataset file: %w", err)
	}
	return nil
}

// UpsertPhonemeAlignment replaces (or sets) the phoneme alignment for the
// entry with the given voice key hash and rewrites the file. A dataset file
// without the entry (or no dataset file at all) is left untouched;
// store-only imports are a supported path. Reports whether a write happened.
func UpsertPhonemeAlignment(path, voiceKeyHash string, alignment *PhonemeAlignment) (bool, error) {
	entries, err := ReadFile(path)
	if err != nil {
		return false, err
	}
	for i := range entries {
		if entries[i].VoiceKeyHash == voiceKeyHash {
			entries[i].PhonemeAlignment = alignment
			if err := WriteFile(path, entries); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// AppendEntry adds a new entry to the dataset file, replacing any existing
// entry with the same voice key hash.
func AppendEntry(path string, entry Entry) error {
	entries, err := ReadFile(path)
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].VoiceKeyHash == entry.VoiceKeyHash {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return WriteFile(path, entries)
}
