package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const entryColumns = "item_id, status, enqueued_at, shared_at, error_message, attempts"

// Enqueue inserts a pending entry for itemID if none exists. Calling it twice
// has the effect of calling it once; the returned bool reports whether a new
// entry was created.
func (s *Store) Enqueue(ctx context.Context, itemID int64) (bool, error) {
	if itemID <= 0 {
		return false, fmt.Errorf("item id must be positive, got %d", itemID)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_entries (item_id, status, enqueued_at) VALUES (?, ?, ?)
         ON CONFLICT(item_id) DO NOTHING`,
		itemID,
		StatusPending,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("enqueue item %d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Get fetches a queue entry by item identifier. Returns nil when absent.
func (s *Store) Get(ctx context.Context, itemID int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM queue_entries WHERE item_id = ?`, itemID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// ListPending returns pending entries ordered oldest-first. The result is a
// snapshot at call time; shared entries never appear in it.
func (s *Store) ListPending(ctx context.Context) ([]*Entry, error) {
	return s.List(ctx, StatusPending)
}

// List returns entries filtered by status set (or all entries when no status
// is provided), ordered by enqueue time ascending.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + entryColumns + ` FROM queue_entries`
	orderClause := ` ORDER BY enqueued_at, item_id`

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
		return nil, fmt.Errorf("list queue entries: %w", err)
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

// Claim transitions an entry from pending to publishing. Exactly one of any
// number of concurrent claimants observes true; the rest must skip the item.
func (s *Store) Claim(ctx context.Context, itemID int64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_entries SET status = ? WHERE item_id = ? AND status = ?`,
		StatusPublishing,
		itemID,
		StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("claim item %d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Release returns a claimed entry to pending after a failed publish attempt,
// recording the failure and bumping the attempt counter.
func (s *Store) Release(ctx context.Context, itemID int64, errMsg string) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE queue_entries
         SET status = ?, error_message = ?, attempts = attempts + 1
         WHERE item_id = ? AND status = ?`,
		StatusPending,
		nullableString(errMsg),
		itemID,
		StatusPublishing,
	)
	if err != nil {
		return fmt.Errorf("release item %d: %w", itemID, err)
	}
	return nil
}

// MarkShared transitions an entry to shared and records the share timestamp.
// Marking an already-shared entry is a no-op that preserves the original
// shared_at; a missing entry reports ErrNotFound.
func (s *Store) MarkShared(ctx context.Context, itemID int64, at time.Time) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_entries
         SET status = ?, shared_at = ?, error_message = NULL
         WHERE item_id = ? AND status != ?`,
		StatusShared,
		at.UTC().Format(time.RFC3339Nano),
		itemID,
		StatusShared,
	)
	if err != nil {
		return fmt.Errorf("mark shared %d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	entry, err := s.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("mark shared %d: %w", itemID, ErrNotFound)
	}
	// Already shared: benign, keep the first timestamp.
	return nil
}

// ResetStuckPublishing returns entries left in publishing (e.g. after a crash
// mid-drain) back to pending so the next drain retries them.
func (s *Store) ResetStuckPublishing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_entries SET status = ? WHERE status = ?`,
		StatusPending,
		StatusPublishing,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck publishing: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of entries grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM queue_entries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
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

// Health aggregates queue state for diagnostic output.
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
		case StatusPublishing:
			health.Publishing += count
		case StatusShared:
			health.Shared += count
		}
	}
	return health, nil
}

// Remove deletes an entry by item identifier.
func (s *Store) Remove(ctx context.Context, itemID int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_entries WHERE item_id = ?`, itemID)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearShared removes only shared entries from the queue.
func (s *Store) ClearShared(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_entries WHERE status = ?`, StatusShared)
	if err != nil {
		return 0, fmt.Errorf("clear shared: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all entries from the queue.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_entries`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		itemID       int64
		statusStr    string
		enqueuedRaw  sql.NullString
		sharedRaw    sql.NullString
		errorMessage sql.NullString
		attempts     sql.NullInt64
	)

	if err := scanner.Scan(&itemID, &statusStr, &enqueuedRaw, &sharedRaw, &errorMessage, &attempts); err != nil {
		return nil, err
	}

	entry := &Entry{
		ItemID:       itemID,
		Status:       Status(statusStr),
		ErrorMessage: errorMessage.String,
		Attempts:     int(attempts.Int64),
	}

	if enqueued, err := parseTimeString(enqueuedRaw.String); err == nil {
		entry.EnqueuedAt = enqueued
	}
	if sharedRaw.Valid {
		if shared, err := parseTimeString(sharedRaw.String); err == nil {
			entry.SharedAt = &shared
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

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
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
