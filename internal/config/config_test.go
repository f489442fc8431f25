// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	for _, k := range []string{
		"CHATCPE_API_URL", "VITE_API_BASE_URL", "CHATCPE_TIMEOUT", "CHATCPE_RATE_LIMIT",
		"CHATCPE_STORAGE", "CHATCPE_STORAGE_PATH", "CHATCPE_REDIS_URL", "CHATCPE_THEME",
		"CHATCPE_LOG_LEVEL", "CHATCPE_LOG_FILE", "CHATCPE_NO_WATCH", "CHATCPE_NO_ALT_SCREEN",
		"CHATCPE_PLAIN",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 60, cfg.API.TimeoutSecs)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "storage.db"), cfg.Storage.Path)
	assert.Equal(t, filepath.Join(dir, "chatcpe.log"), cfg.Log.File)
	assert.True(t, cfg.UI.WatchSession)
}

func TestLoad_TOMLKeepsUnsetDefaults(t *testing.T) {
	dir := isolate(t)
	content := `
[api]
base_url = "https://chat.cpe.example.ac.th/"

[ui]
theme = "Dark"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)

	// Trailing slash is trimmed so paths can be appended.
	assert.Equal(t, "https://chat.cpe.example.ac.th", cfg.API.BaseURL)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 60, cfg.API.TimeoutSecs)
	assert.True(t, cfg.UI.Markdown)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[api]\nbase_url = \"http://file:8000\"\n"), 0600))

	t.Setenv("VITE_API_BASE_URL", "http://vite:8000")
	t.Setenv("CHATCPE_TIMEOUT", "90s")
	t.Setenv("CHATCPE_NO_WATCH", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://vite:8000", cfg.API.BaseURL)
	assert.Equal(t, 90, cfg.API.TimeoutSecs)
	assert.False(t, cfg.UI.WatchSession)

	// CHATCPE_API_URL wins over the web client's variable.
	t.Setenv("CHATCPE_API_URL", "http://native:9000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://native:9000", cfg.API.BaseURL)
}

func TestLoad_BadEnvValue(t *testing.T) {
	isolate(t)
	t.Setenv("CHATCPE_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api\n"), 0600))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load TOML config")
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "localhost"
	cfg.API.TimeoutSecs = 0
	cfg.Storage.Backend = "etcd"
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	got := make(map[string]bool)
	for _, v := range verrs {
		got[v.Field] = true
	}
	for _, f := range []string{"api.base_url", "api.timeout_secs", "storage.backend", "ui.theme"} {
		assert.True(t, got[f], "expected error for %s", f)
	}
}

func TestValidate_RedisNeedsURL(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.redis_url")

	cfg.Storage.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// GET/SET TESTS
// =============================================================================

func TestGetSet(t *testing.T) {
	isolate(t)
	cfg := Default()

	require.NoError(t, cfg.Set("api.timeout_secs", "30"))
	v, err := cfg.Get("api.timeout_secs")
	require.NoError(t, err)
	assert.Equal(t, "30", v)

	require.NoError(t, cfg.Set("ui.markdown", "false"))
	assert.False(t, cfg.UI.Markdown)

	_, err = cfg.Get("api.nope")
	assert.Error(t, err)
}

func TestSet_RestoresOnInvalidValue(t *testing.T) {
	isolate(t)
	cfg := Default()

	err := cfg.Set("ui.theme", "neon")
	require.Error(t, err)
	assert.Equal(t, "auto", cfg.UI.Theme)

	err = cfg.Set("api.burst", "many")
	require.Error(t, err)
	assert.Equal(t, 5, cfg.API.Burst)
}

func TestKeys_Sorted(t *testing.T) {
	keys := Keys()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}

// =============================================================================
// SAVE TESTS
// =============================================================================

func TestSaveTOML_RoundTripAndPermissions(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://saved:8000"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# chatcpe configuration file"))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved:8000", loaded.API.BaseURL)
}

// =============================================================================
// GLOBAL TESTS
// =============================================================================

// TestConfig_ConcurrentAccess checks Global and SetGlobal under -race.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
