package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the cache and release endpoint at test-owned locations.
func isolate(t *testing.T, handler http.HandlerFunc) *int32 {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	oldURL, oldCache, oldVersion := UpdateURL, cachePath, Version
	UpdateURL = srv.URL
	cachePath = func() (string, error) { return filepath.Join(dir, "cache.json"), nil }
	t.Cleanup(func() {
		UpdateURL, cachePath, Version = oldURL, oldCache, oldVersion
	})

	return &hits
}

func TestCheckUpdateNewerRelease(t *testing.T) {
	hits := isolate(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v1.2.0","html_url":"https://example.invalid"}`))
	})
	Version = "v1.1.0"

	latest, err := CheckUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", latest)

	// Second call within the interval is served from cache.
	latest, err = CheckUpdate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestCheckUpdateCurrent(t *testing.T) {
	isolate(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v1.1.0"}`))
	})
	Version = "v1.1.0"

	latest, err := CheckUpdate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestCheckUpdateServerError(t *testing.T) {
	isolate(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := CheckUpdate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestUpdateCacheSaveLoad(t *testing.T) {
	isolate(t, func(http.ResponseWriter, *http.Request) {})

	loaded, err := loadUpdateCache()
	require.NoError(t, err)
	assert.True(t, loaded.LastUpdateCheck.IsZero())

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, saveUpdateCache(&UpdateCache{LastUpdateCheck: now, LastKnownVersion: "1.2.3"}))

	loaded, err = loadUpdateCache()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", loaded.LastKnownVersion)
	assert.True(t, now.Equal(loaded.LastUpdateCheck))
}

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"v1.0.0", "1.0.0"},
		{"1.0.0", "1.0.0"},
		{"V2.1.0", "2.1.0"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripPrefix(tt.in), tt.in)
	}
}

func TestInfoString(t *testing.T) {
	assert.Equal(t, "dev (development build)", Info{Version: "dev", Commit: "x", Date: "y"}.String())
	assert.True(t, Info{}.IsDev())
	assert.Equal(t, "v1.0.0 (commit abc, built 2026-01-01)", Info{Version: "v1.0.0", Commit: "abc", Date: "2026-01-01"}.String())
}
