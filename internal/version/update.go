package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const (
	RepoOwner = "khanglvm"
	RepoName  = "cmd-palette"

	// checkInterval is how long a completed check is trusted.
	checkInterval = 24 * time.Hour
)

// UpdateURL is the GitHub endpoint describing the latest release.
var UpdateURL = "https://api.github.com/repos/" + RepoOwner + "/" + RepoName + "/releases/latest"

// cachePath locates the update cache; replaced in tests.
var cachePath = defaultCachePath

var checkMu sync.Mutex

// GitHubRelease represents a GitHub release API response.
type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// UpdateCache stores update check state.
type UpdateCache struct {
	LastUpdateCheck  time.Time `json:"lastUpdateCheck"`
	LastKnownVersion string    `json:"lastKnownVersion"`
}

// CheckUpdate returns the latest released version when it differs from
// the running one, or "" when up to date or checked within the last day.
func CheckUpdate(ctx context.Context) (string, error) {
	checkMu.Lock()
	defer checkMu.Unlock()

	cache, err := loadUpdateCache()
	if err == nil && time.Since(cache.LastUpdateCheck) < checkInterval {
		return "", nil
	}
	if cache == nil {
		cache = &UpdateCache{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, UpdateURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	latestVersion := StripPrefix(release.TagName)

	cache.LastUpdateCheck = time.Now()
	cache.LastKnownVersion = latestVersion
	if err := saveUpdateCache(cache); err != nil {
		log.Warn().Err(err).Msg("Failed to save update cache")
	}

	if latestVersion != "" && latestVersion != StripPrefix(Version) {
		return latestVersion, nil
	}
	return "", nil
}

// StripPrefix removes a leading v or V from a release tag.
func StripPrefix(tag string) string {
	return strings.TrimPrefix(strings.TrimPrefix(tag, "v"), "V")
}

func defaultCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cmd-palette", "update-cache.json"), nil
}

// loadUpdateCache loads the update cache from disk.
func loadUpdateCache() (*UpdateCache, error) {
	path, err := cachePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UpdateCache{}, nil
		}
		return nil, err
	}

	var cache UpdateCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return &UpdateCache{}, nil
	}

	return &cache, nil
}

// saveUpdateCache saves the update cache to disk.
func saveUpdateCache(cache *UpdateCache) error {
	path, err := cachePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
