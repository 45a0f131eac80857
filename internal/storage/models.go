package storage

import (
	"time"

	"github.com/google/uuid"
)

// Event is one persisted command selection.
type Event struct {
	// Query is the text the user had typed when choosing the command.
	Query string `json:"query"`

	// CommandID is the id of the chosen command.
	CommandID string `json:"commandId"`

	// Timestamp is unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// SearchRecord represents a palette query for analytics.
type SearchRecord struct {
	// SearchID is a unique identifier for this search (UUID).
	SearchID string `json:"search_id"`

	// QueryHash is the SHA256 hash of the query text.
	QueryHash string `json:"query_hash"`

	// Timestamp is when the search was performed.
	Timestamp time.Time `json:"timestamp"`

	// ResultsCount is the number of results returned.
	ResultsCount int `json:"results_count"`
}

// NewSearchRecord builds a record with a fresh id for query.
func NewSearchRecord(query string, results int) SearchRecord {
	return SearchRecord{
		SearchID:     uuid.NewString(),
		QueryHash:    HashQuery(query),
		Timestamp:    time.Now(),
		ResultsCount: results,
	}
}
