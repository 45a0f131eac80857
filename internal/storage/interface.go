/*
Package storage implements persistence for the palette's interaction log.

The log is always read and written as a whole snapshot: LoadEvents returns
every event most-recent-first and SaveEvents replaces whatever was stored.
Three backends exist: SQLite (default, ~/.cmd-palette/history.db, using the
pure Go modernc.org/sqlite driver), a JSON file at a fixed filename, and an
in-memory store for tests.

Storage failures degrade gracefully: a store that cannot initialize is
disabled and its operations become no-ops.
*/
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const (
	// DefaultDirName is the data directory created under the user's home.
	DefaultDirName = ".cmd-palette"

	// DBFileName is the SQLite database filename.
	DBFileName = "history.db"

	// JSONFileName is the fixed filename used by the file backend.
	JSONFileName = "history.json"
)

// ErrCorrupt is returned when persisted data cannot be decoded.
var ErrCorrupt = errors.New("persisted interaction log is corrupt")

// Store defines the persistence operations the palette needs.
type Store interface {
	// Init prepares the backend (directories, schema).
	Init() error

	// LoadEvents returns the full log, most recent first.
	LoadEvents(ctx context.Context) ([]Event, error)

	// SaveEvents replaces the persisted log with events.
	SaveEvents(ctx context.Context, events []Event) error

	// RecordSearch records a query for analytics.
	RecordSearch(search SearchRecord) error

	// Close releases resources.
	Close() error
}

// New returns a store for the named backend rooted at dir.
// An empty dir resolves to ~/.cmd-palette.
func New(backend, dir string) (Store, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	switch backend {
	case "", "sqlite":
		return NewStorage(filepath.Join(dir, DBFileName)), nil
	case "file":
		return NewFileStorage(filepath.Join(dir, JSONFileName)), nil
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// DefaultDir returns ~/.cmd-palette.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// SQLiteStorage implements Store using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStorage creates a SQLite store for the database at dbPath.
// The database is opened lazily by Init.
func NewStorage(dbPath string) *SQLiteStorage {
	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: dbPath != "",
	}
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Init opens the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops.
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Warn().Err(initErr).Msg("Storage disabled")
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			log.Warn().Err(initErr).Msg("Storage disabled")
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			log.Warn().Err(initErr).Msg("Storage disabled")
			return
		}
	})

	return initErr
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}

func (s *SQLiteStorage) ready() bool {
	return s.enabled && s.db != nil
}

// HashQuery creates a SHA256 hash of a query string for analytics records.
func HashQuery(query string) string {
	hash := sha256.Sum256([]byte(query))
	return hex.EncodeToString(hash[:])
}
