package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []Event {
	return []Event{
		{Query: "crop", CommandID: "tool_crop", Timestamp: 200},
		{Query: "crop", CommandID: "tool_crop", Timestamp: 100},
		{Query: "", CommandID: "menu:File/Close", Timestamp: 50},
	}
}

// TestInit verifies database initialization and schema creation.
func TestInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s := NewStorage(dbPath)

	require.NoError(t, s.Init())
	defer s.Close()

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "database file not created")
}

// TestSQLite_SaveLoadRoundTrip verifies snapshot order survives persistence.
func TestSQLite_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, s.Init())
	defer s.Close()

	require.NoError(t, s.SaveEvents(ctx, sampleEvents()))

	got, err := s.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEvents(), got)
}

// TestSQLite_SaveReplacesSnapshot verifies SaveEvents is a full rewrite.
func TestSQLite_SaveReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, s.Init())
	defer s.Close()

	require.NoError(t, s.SaveEvents(ctx, sampleEvents()))
	require.NoError(t, s.SaveEvents(ctx, sampleEvents()[:1]))

	got, err := s.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, s.SaveEvents(ctx, nil))
	got, err = s.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestSQLite_ReopenKeepsData verifies migrations are not re-applied destructively.
func TestSQLite_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s := NewStorage(dbPath)
	require.NoError(t, s.Init())
	require.NoError(t, s.SaveEvents(ctx, sampleEvents()))
	require.NoError(t, s.Close())

	s2 := NewStorage(dbPath)
	require.NoError(t, s2.Init())
	defer s2.Close()

	got, err := s2.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

// TestRecordSearch verifies analytics rows are written.
func TestRecordSearch(t *testing.T) {
	s := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, s.Init())
	defer s.Close()

	require.NoError(t, s.RecordSearch(NewSearchRecord("crop", 3)))
	require.NoError(t, s.RecordSearch(NewSearchRecord("crop", 3)))

	n, err := s.SearchCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Cleanup(time.Hour))
}

// TestHashQuery verifies query hashing consistency.
func TestHashQuery(t *testing.T) {
	hash1 := HashQuery("test query for hashing")
	hash2 := HashQuery("test query for hashing")

	assert.Equal(t, hash1, hash2)
	assert.Len(t, hash1, 64)
}

// TestGracefulDegradation verifies behavior when the DB is unavailable.
func TestGracefulDegradation(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	s := NewStorage(filepath.Join(blocker, "sub", "test.db"))

	assert.Error(t, s.Init())

	assert.NoError(t, s.SaveEvents(ctx, sampleEvents()))
	got, err := s.LoadEvents(ctx)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, s.RecordSearch(NewSearchRecord("x", 0)))
}

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := NewFileStorage(filepath.Join(t.TempDir(), "nested", JSONFileName))
	require.NoError(t, f.Init())

	got, err := f.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "missing file is an empty log")

	require.NoError(t, f.SaveEvents(ctx, sampleEvents()))
	got, err = f.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEvents(), got)
}

func TestFileStorage_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), JSONFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileStorage(path).LoadEvents(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestNew_Backends(t *testing.T) {
	dir := t.TempDir()

	s, err := New("sqlite", dir)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStorage{}, s)

	s, err = New("file", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileStorage{}, s)

	s, err = New("memory", dir)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	_, err = New("redis", dir)
	assert.Error(t, err)
}
