package storage

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "interaction_log", up: s.migration001InteractionLog},
		{version: 2, name: "search_history", up: s.migration002SearchHistory},
	}

	for _, m := range migrations {
		if version < m.version {
			log.Debug().Int("version", m.version).Str("name", m.name).Msg("Running migration")
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

func (s *SQLiteStorage) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (s *SQLiteStorage) setMigrationVersion(version int, name string) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name)
	return err
}

// migration001InteractionLog creates the snapshot table for the log.
// position 0 is always the newest event.
func (s *SQLiteStorage) migration001InteractionLog() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS interaction_log (
			position INTEGER PRIMARY KEY,
			query TEXT NOT NULL,
			command_id TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create interaction_log table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_interaction_log_command
		ON interaction_log(command_id)
	`); err != nil {
		return fmt.Errorf("failed to create interaction_log command index: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) migration002SearchHistory() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			search_id TEXT NOT NULL UNIQUE,
			query_hash TEXT NOT NULL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			results_count INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create search_history table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_search_history_timestamp
		ON search_history(timestamp DESC)
	`); err != nil {
		return fmt.Errorf("failed to create search_history timestamp index: %w", err)
	}

	return nil
}
