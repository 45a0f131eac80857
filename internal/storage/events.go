package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// LoadEvents reads the full interaction log, most recent first.
func (s *SQLiteStorage) LoadEvents(ctx context.Context) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return []Event{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT query, command_id, timestamp
		FROM interaction_log
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction log: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Query, &e.CommandID, &e.Timestamp); err != nil {
			log.Warn().Err(err).Msg("Skipping unreadable interaction row")
			continue
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return events, nil
}

// SaveEvents replaces the stored log with events in one transaction.
func (s *SQLiteStorage) SaveEvents(ctx context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM interaction_log"); err != nil {
		return fmt.Errorf("failed to clear interaction log: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO interaction_log (position, query, command_id, timestamp)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		if _, err := stmt.ExecContext(ctx, i, e.Query, e.CommandID, e.Timestamp); err != nil {
			return fmt.Errorf("failed to insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit interaction log: %w", err)
	}
	return nil
}
