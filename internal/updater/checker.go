// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
)

const (
	// ReleaseAPIURL is the endpoint for fetching the latest release
	ReleaseAPIURL = "https://api.github.com/repos/dotandev/canact/releases/latest"
	// CheckInterval is how often we check for updates (24 hours)
	CheckInterval = 24 * time.Hour
	// RequestTimeout is the maximum time to wait for the release API
	RequestTimeout = 5 * time.Second
)

// Checker handles update checking logic
type Checker struct {
	currentVersion string
	cacheDir       string
	apiURL         string
}

// Release represents the release API response
type Release struct {
	TagName string `json:"tag_name"`
}

// CacheData stores the last check timestamp and latest version
type CacheData struct {
	LastCheck     time.Time `json:"last_check"`
	LatestVersion string    `json:"latest_version"`
}

// NewChecker creates a new update checker
func NewChecker(currentVersion string) *Checker {
	return &Checker{
		currentVersion: currentVersion,
		cacheDir:       getCacheDir(),
		apiURL:         ReleaseAPIURL,
	}
}

// CheckForUpdates performs the throttled update check. Failures are silent:
// an update notice is a courtesy, never a reason to bother the user with
// errors.
func (c *Checker) CheckForUpdates() {
	if c.isUpdateCheckDisabled() {
		return
	}

	shouldCheck, err := c.shouldCheck()
	if err != nil || !shouldCheck {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
	defer cancel()

	latestVersion, err := c.fetchLatestVersion(ctx)
	if err != nil {
		return
	}

	if err := c.updateCache(latestVersion); err != nil {
		return
	}

	needsUpdate, err := c.compareVersions(c.currentVersion, latestVersion)
	if err != nil || !needsUpdate {
		return
	}

	c.displayNotification(latestVersion)
}

// shouldCheck determines if we should check based on cache
func (c *Checker) shouldCheck() (bool, error) {
	cacheFile := filepath.Join(c.cacheDir, "last_update_check")

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		// Cache doesn't exist or can't be read - should check
		return true, nil
	}

	var cache CacheData
	if err := json.Unmarshal(data, &cache); err != nil {
		// Corrupted cache - should check
		return true, nil
	}

	return time.Since(cache.LastCheck) >= CheckInterval, nil
}

// fetchLatestVersion calls the release API to get the latest release tag
func (c *Checker) fetchLatestVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL, nil)
	if err != nil {
		return "", err
	}

	// Set User-Agent header (GitHub API requires it)
	req.Header.Set("User-Agent", "canact-cli")
	req.Header.Set("Accept", "application/vnd.github+json")

	client := &http.Client{
		Timeout: RequestTimeout,
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return "", err
	}

	return release.TagName, nil
}

// compareVersions compares current vs latest version
func (c *Checker) compareVersions(current, latest string) (bool, error) {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")

	// Skip comparison if running dev version
	if current == "dev" || current == "" {
		return false, nil
	}

	currentVer, err := version.NewVersion(current)
	if err != nil {
		return false, err
	}

	latestVer, err := version.NewVersion(latest)
	if err != nil {
		return false, err
	}

	return latestVer.GreaterThan(currentVer), nil
}

// displayNotification prints the update message to stderr
func (c *Checker) displayNotification(latestVersion string) {
	fmt.Fprint(os.Stderr, updateMessage(latestVersion))
}

// updateMessage names the module root, where the main package lives.
func updateMessage(latestVersion string) string {
	return fmt.Sprintf(
		"\n💡 A new version (%s) is available! Run 'go install github.com/dotandev/canact@latest' to update.\n\n",
		latestVersion,
	)
}

// updateCache updates the cache file with the latest check time and version
func (c *Checker) updateCache(latestVersion string) error {
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return err
	}

	cache := CacheData{
		LastCheck:     time.Now(),
		LatestVersion: latestVersion,
	}

	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}

	cacheFile := filepath.Join(c.cacheDir, "last_update_check")
	return os.WriteFile(cacheFile, data, 0644)
}

// isUpdateCheckDisabled checks if the user has opted out
func (c *Checker) isUpdateCheckDisabled() bool {
	// Environment variable takes precedence
	if os.Getenv("CANACT_NO_UPDATE_CHECK") != "" {
		return true
	}

	return configDisablesUpdates(getConfigPath())
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".canact", "config.json")
	}
	return ""
}

// configDisablesUpdates reads the config file and checks if updates are
// disabled via "check_for_updates": false.
func configDisablesUpdates(configPath string) bool {
	if configPath == "" {
		return false
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file doesn't exist or can't be read - updates are enabled
		return false
	}

	var cfg struct {
		CheckForUpdates *bool `json:"check_for_updates"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return false
	}

	return cfg.CheckForUpdates != nil && !*cfg.CheckForUpdates
}

// getCacheDir returns the appropriate cache directory for the platform
func getCacheDir() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "canact")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".cache", "canact")
	}

	// Last resort - use temp directory
	return filepath.Join(os.TempDir(), "canact")
}
