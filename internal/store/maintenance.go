package store

import (
	"context"
	"fmt"
	"time"
)

// Stats returns a count of entries grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM entries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates catalog state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusFailed:
			health.Failed += count
		case StatusCompleted:
			health.Completed += count
		default:
			if _, ok := processingStatuses[status]; ok {
				health.Processing += count
			}
		}
	}
	return health, nil
}

// ResetStuckProcessing rolls entries left in a mid-stage status by an
// interrupted run back to the preceding stable status. Returns the number of
// entries changed.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	var total int64
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, transition := range stageRollbackTransitions {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE entries SET status = ?, updated_at = ? WHERE status = ?`,
			transition.to, timestamp, transition.from,
		)
		if err != nil {
			return total, fmt.Errorf("reset %s entries: %w", transition.from, err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			total += affected
		}
	}
	return total, nil
}

// RetryFailed moves failed entries back to pending and clears their error
// message. Returns the number of entries changed.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE entries SET status = ?, error_message = NULL, updated_at = ? WHERE status = ?`,
		StatusPending, timestamp, StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("retry failed entries: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes completed entries, or every entry when all is true.
func (s *Store) Clear(ctx context.Context, all bool) (int64, error) {
	query := `DELETE FROM entries WHERE status = ?`
	args := []any{StatusCompleted}
	if all {
		query = `DELETE FROM entries`
		args = nil
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	return res.RowsAffected()
}
