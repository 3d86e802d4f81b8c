package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateEntry indicates an entry with the same voice key hash already exists.
var ErrDuplicateEntry = errors.New("entry already exists")

// NewEntry inserts a new pending entry. The voice key hash must be unique.
func (s *Store) NewEntry(ctx context.Context, entry *Entry) (*Entry, error) {
	if entry == nil {
		return nil, errors.New("entry is nil")
	}
	if entry.VoiceKeyHash == "" {
		return nil, errors.New("voice key hash is required")
	}

	if existing, err := s.GetByHash(ctx, entry.VoiceKeyHash); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, entry.VoiceKeyHash)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO entries (
            voice_key_hash, script, voice_id, audio_base64,
            alignment_json, normalized_alignment_json, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.VoiceKeyHash,
		nullableString(entry.Script),
		nullableString(entry.VoiceID),
		nullableString(entry.AudioBase64),
		nullableString(entry.AlignmentJSON),
		nullableString(entry.NormalizedAlignmentJSON),
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a catalog entry by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// GetByHash fetches a catalog entry by voice key hash.
func (s *Store) GetByHash(ctx context.Context, hash string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE voice_key_hash = ?`, hash)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry by hash: %w", err)
	}
	return entry, nil
}

// Update persists changes to an existing catalog entry.
func (s *Store) Update(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	entry.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE entries
         SET script = ?, voice_id = ?, audio_base64 = ?, alignment_json = ?,
             normalized_alignment_json = ?, status = ?, wav_file = ?, lab_file = ?,
             textgrid_file = ?, phonemes_json = ?, aligned_at = ?, error_message = ?,
             updated_at = ?
         WHERE id = ?`,
		nullableString(entry.Script),
		nullableString(entry.VoiceID),
		nullableString(entry.AudioBase64),
		nullableString(entry.AlignmentJSON),
		nullableString(entry.NormalizedAlignmentJSON),
		entry.Status,
		nullableString(entry.WavFile),
		nullableString(entry.LabFile),
		nullableString(entry.TextGridFile),
		nullableString(entry.PhonemesJSON),
		nullableTime(entry.AlignedAt),
		nullableString(entry.ErrorMessage),
		entry.UpdatedAt.Format(time.RFC3339Nano),
		entry.ID,
	); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

// List returns entries filtered by status set (or all entries when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + entryColumns + ` FROM entries`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// TransitionAll moves every entry currently in the from status to the to
// status and returns the affected entries. Used by the batch align stage.
func (s *Store) TransitionAll(ctx context.Context, from, to Status) ([]*Entry, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE entries SET status = ?, updated_at = ? WHERE status = ?`,
		to, timestamp, from,
	); err != nil {
		return nil, fmt.Errorf("transition %s -> %s: %w", from, to, err)
	}
	return s.List(ctx, to)
}
