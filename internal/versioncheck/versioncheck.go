// Package versioncheck performs a best-effort, rate-limited (once/24h)
// check against the module's release feed, adapted from the prior CLI's
// versioncheck package and narrowed to the single `claudekit version`
// entry point; it never blocks or delays `hooks run`.
package versioncheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	checkInterval = 24 * time.Hour
	httpTimeout   = 2 * time.Second
	cacheFileName = "versioncheck.json"
)

var githubAPIURL = "https://api.github.com/repos/carlrannaberg/claudekit/releases/latest"

// Cache is the on-disk record of when we last checked.
type Cache struct {
	LastCheckTime time.Time `json:"last_check_time"`
}

// GitHubRelease is the subset of the GitHub releases API response this
// package needs.
type GitHubRelease struct {
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
}

// CheckAndNotify checks for a newer release and prints a notice to w if
// one is available. Silent on every error — a failed check never disrupts
// the calling command. Skipped entirely for dev builds.
func CheckAndNotify(w io.Writer, currentVersion string) {
	if currentVersion == "dev" || currentVersion == "" {
		return
	}

	cacheDir, err := cacheDirPath()
	if err != nil {
		return
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return
	}

	cache, err := loadCache(cacheDir)
	if err != nil {
		cache = &Cache{}
	}
	if time.Since(cache.LastCheckTime) < checkInterval {
		return
	}

	latest, fetchErr := fetchLatestVersion()
	cache.LastCheckTime = time.Now()
	_ = saveCache(cacheDir, cache)

	if fetchErr != nil {
		return
	}
	if isOutdated(currentVersion, latest) {
		fmt.Fprintf(w, "\nA newer version of claudekit is available: %s (current: %s)\nRun your package manager's upgrade command to update.\n", latest, currentVersion)
	}
}

func cacheDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".claudekit"), nil
}

func cacheFilePath(dir string) string { return filepath.Join(dir, cacheFileName) }

func loadCache(dir string) (*Cache, error) {
	data, err := os.ReadFile(cacheFilePath(dir)) //nolint:gosec // fixed basename under the resolved cache dir
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing cache: %w", err)
	}
	return &c, nil
}

func saveCache(dir string, c *Cache) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".versioncheck.*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return os.Rename(tmp.Name(), cacheFilePath(dir))
}

func fetchLatestVersion() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubAPIURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "claudekit")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("parsing release: %w", err)
	}
	if release.Prerelease {
		return "", errors.New("only prerelease versions available")
	}
	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}
	return release.TagName, nil
}

func isOutdated(current, latest string) bool {
	if !strings.HasPrefix(current, "v") {
		current = "v" + current
	}
	if !strings.HasPrefix(latest, "v") {
		latest = "v" + latest
	}
	return semver.Compare(current, latest) < 0
}
