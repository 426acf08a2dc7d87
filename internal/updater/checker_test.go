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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	c := NewChecker("1.0.0")

	cases := []struct {
		current string
		latest  string
		update  bool
	}{
		{"1.0.0", "1.1.0", true},
		{"1.0.0", "1.0.0", false},
		{"1.1.0", "1.0.0", false},
		{"v1.0.0", "v2.0.0", true},
		{"dev", "9.9.9", false},
		{"", "1.0.0", false},
	}
	for _, tc := range cases {
		got, err := c.compareVersions(tc.current, tc.latest)
		require.NoError(t, err)
		assert.Equal(t, tc.update, got, "%s vs %s", tc.current, tc.latest)
	}
}

func TestCompareVersionsBadInput(t *testing.T) {
	c := NewChecker("1.0.0")
	_, err := c.compareVersions("1.0.0", "not-a-version")
	assert.Error(t, err)
}

func TestShouldCheckFreshCache(t *testing.T) {
	dir := t.TempDir()
	c := &Checker{currentVersion: "1.0.0", cacheDir: dir}

	// No cache yet.
	should, err := c.shouldCheck()
	require.NoError(t, err)
	assert.True(t, should)

	require.NoError(t, c.updateCache("1.2.3"))

	should, err = c.shouldCheck()
	require.NoError(t, err)
	assert.False(t, should, "a fresh cache suppresses the check")
}

func TestShouldCheckStaleCache(t *testing.T) {
	dir := t.TempDir()
	c := &Checker{currentVersion: "1.0.0", cacheDir: dir}

	stale := CacheData{LastCheck: time.Now().Add(-2 * CheckInterval), LatestVersion: "1.2.3"}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "last_update_check"), data, 0644))

	should, err := c.shouldCheck()
	require.NoError(t, err)
	assert.True(t, should)
}

func TestFetchLatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode(Release{TagName: "v1.4.2"})
	}))
	defer srv.Close()

	c := &Checker{currentVersion: "1.0.0", cacheDir: t.TempDir(), apiURL: srv.URL}
	tag, err := c.fetchLatestVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.4.2", tag)
}

func TestFetchLatestVersionUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Checker{currentVersion: "1.0.0", cacheDir: t.TempDir(), apiURL: srv.URL}
	_, err := c.fetchLatestVersion(context.Background())
	assert.Error(t, err)
}

func TestConfigDisablesUpdates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	assert.False(t, configDisablesUpdates(path), "missing config enables updates")

	require.NoError(t, os.WriteFile(path, []byte(`{"check_for_updates": false}`), 0644))
	assert.True(t, configDisablesUpdates(path))

	require.NoError(t, os.WriteFile(path, []byte(`{"check_for_updates": true}`), 0644))
	assert.False(t, configDisablesUpdates(path))

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))
	assert.False(t, configDisablesUpdates(path))
}

func TestEnvDisablesUpdateCheck(t *testing.T) {
	t.Setenv("CANACT_NO_UPDATE_CHECK", "1")
	c := NewChecker("1.0.0")
	assert.True(t, c.isUpdateCheckDisabled())
}

func TestUpdateMessagePointsAtModuleRoot(t *testing.T) {
	msg := updateMessage("1.2.3")
	assert.Contains(t, msg, "1.2.3")
	assert.Contains(t, msg, "go install github.com/dotandev/canact@latest")
}
