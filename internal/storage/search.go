package storage

import (
	"time"

	"github.com/rs/zerolog/log"
)

// RecordSearch records a palette query for analytics.
func (s *SQLiteStorage) RecordSearch(search SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO search_history (search_id, query_hash, timestamp, results_count)
		VALUES (?, ?, ?, ?)
	`,
		search.SearchID,
		search.QueryHash,
		search.Timestamp.Format(time.RFC3339),
		search.ResultsCount,
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to record search")
	}

	return nil
}

// SearchCount returns how many searches have been recorded.
func (s *SQLiteStorage) SearchCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return 0, nil
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM search_history").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Cleanup removes search analytics older than retention.
// The interaction log itself is never trimmed here.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready() {
		return nil
	}

	cutoff := time.Now().Add(-retention).Format(time.RFC3339)

	if _, err := s.db.Exec("DELETE FROM search_history WHERE timestamp < ?", cutoff); err != nil {
		log.Warn().Err(err).Msg("Failed to cleanup search_history")
	}

	if _, err := s.db.Exec("VACUUM"); err != nil {
		log.Warn().Err(err).Msg("Failed to vacuum database")
	}

	return nil
}
