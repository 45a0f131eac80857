package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// FileStorage keeps the whole log as a JSON array in a single file.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates a file store at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the backing file path.
func (f *FileStorage) Path() string {
	return f.path
}

// Init ensures the parent directory exists.
func (f *FileStorage) Init() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	return nil
}

// LoadEvents decodes the file. A missing file is an empty log;
// undecodable content yields ErrCorrupt.
func (f *FileStorage) LoadEvents(ctx context.Context) ([]Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if len(data) == 0 {
		return []Event{}, nil
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// SaveEvents writes the snapshot atomically via a temp file and rename.
func (f *FileStorage) SaveEvents(ctx context.Context, events []Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if events == nil {
		events = []Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return os.Rename(tmpPath, f.path)
}

// RecordSearch is a no-op; the file backend keeps no analytics.
func (f *FileStorage) RecordSearch(search SearchRecord) error {
	return nil
}

// Close is a no-op.
func (f *FileStorage) Close() error {
	return nil
}

// MemoryStorage keeps everything in process memory.
type MemoryStorage struct {
	mu       sync.Mutex
	events   []Event
	searches []SearchRecord
	saves    int
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Init() error { return nil }

func (m *MemoryStorage) LoadEvents(ctx context.Context) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out, nil
}

func (m *MemoryStorage) SaveEvents(ctx context.Context, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make([]Event, len(events))
	copy(m.events, events)
	m.saves++
	return nil
}

func (m *MemoryStorage) RecordSearch(search SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, search)
	return nil
}

func (m *MemoryStorage) Close() error { return nil }

// Saves reports how many snapshots have been written.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Searches returns the recorded analytics.
func (m *MemoryStorage) Searches() []SearchRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SearchRecord, len(m.searches))
	copy(out, m.searches)
	return out
}
