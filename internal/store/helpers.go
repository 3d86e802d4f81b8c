package store

import (
	"database/sql"
	"errors"
	"time"
)

const entryColumns = "id, voice_key_hash, script, voice_id, audio_base64, alignment_json, normalized_alignment_json, status, wav_file, lab_file, textgrid_file, phonemes_json, aligned_at, error_message, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id            int64
		voiceKeyHash  string
		script        sql.NullString
		voiceID       sql.NullString
		audioBase64   sql.NullString
		alignment     sql.NullString
		normalized    sql.NullString
		statusStr     string
		wavFile       sql.NullString
		labFile       sql.NullString
		textGridFile  sql.NullString
		phonemes      sql.NullString
		alignedAtRaw  sql.NullString
		errorMessage  sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&voiceKeyHash,
		&script,
		&voiceID,
		&audioBase64,
		&alignment,
		&normalized,
		&statusStr,
		&wavFile,
		&labFile,
		&textGridFile,
		&phonemes,
		&alignedAtRaw,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:                      id,
		VoiceKeyHash:            voiceKeyHash,
		Script:                  script.String,
		VoiceID:                 voiceID.String,
		AudioBase64:             audioBase64.String,
		AlignmentJSON:           alignment.String,
		NormalizedAlignmentJSON: normalized.String,
		Status:                  Status(statusStr),
		WavFile:                 wavFile.String,
		LabFile:                 labFile.String,
		TextGridFile:            textGridFile.String,
		PhonemesJSON:            phonemes.String,
		ErrorMessage:            errorMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		entry.UpdatedAt = updated
	}
	if alignedAtRaw.Valid {
		if aligned, err := parseTimeString(alignedAtRaw.String); err == nil {
			entry.AlignedAt = &aligned
		}
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
