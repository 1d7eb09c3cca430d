// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.API.BaseURL)
	assert.Equal(t, 120, cfg.API.TimeoutSecs)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "Pre-seed", cfg.Analysis.DefaultStage)
	assert.True(t, cfg.Directory.CacheEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
version = "1.0.0"

[api]
base_url = "http://localhost:8000"
timeout_secs = 30

[directory]
base_url = "https://example.supabase.co"
key = "anon-key"

[ui]
theme = "light"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.Equal(t, "anon-key", cfg.Directory.Key)
	assert.Equal(t, "light", cfg.UI.Theme)

	// Unset fields pick up defaults.
	assert.Equal(t, Default().API.RateLimit, cfg.API.RateLimit)
	assert.Equal(t, "Pre-seed", cfg.Analysis.DefaultStage)
}

func TestLoadFromPath_FixesPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://x\"\n"), 0644))

	_, err := LoadFromPath(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://localhost:9999"
	cfg.Directory.Key = "secret"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", loaded.API.BaseURL)
	assert.Equal(t, "secret", loaded.Directory.Key)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "not a url"
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	require.Error(t, err)

	var errs ValidateErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "api.base_url")
	assert.Contains(t, fields, "ui.theme")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("VCSCOPE_API_URL", "http://override:8000")
	t.Setenv("VCSCOPE_DIRECTORY_URL", "https://override.supabase.co")
	t.Setenv("VCSCOPE_API_KEY", "env-key")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://override:8000", cfg.API.BaseURL)
	assert.Equal(t, "https://override.supabase.co", cfg.Directory.BaseURL)
	assert.Equal(t, "env-key", cfg.Directory.Key)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("api.base_url", "http://set:1234"))
	val, err := cfg.Get("api.base_url")
	require.NoError(t, err)
	assert.Equal(t, "http://set:1234", val)

	// String values convert to the field's type.
	require.NoError(t, cfg.Set("api.timeout_secs", "45"))
	assert.Equal(t, 45, cfg.API.TimeoutSecs)

	require.NoError(t, cfg.Set("directory.cache_enabled", "false"))
	assert.False(t, cfg.Directory.CacheEnabled)

	_, err = cfg.Get("api.nonexistent")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("bogus.key", "x"))
}

func TestStringRedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Directory.Key = "super-secret-key"

	out := cfg.String()
	assert.NotContains(t, out, "super-secret-key")
	assert.Contains(t, out, "[REDACTED]")
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	w, err := NewWatcherForPath(path)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch())

	cfg := Default()
	cfg.UI.Theme = "light"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case msg := <-w.Events():
		reloaded, ok := msg.(ReloadedMsg)
		require.True(t, ok, "expected ReloadedMsg, got %T", msg)
		assert.Equal(t, "light", reloaded.Config.UI.Theme)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload event")
	}
}

func TestWatcherReportsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	w, err := NewWatcherForPath(path)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch())

	require.NoError(t, os.WriteFile(path, []byte("this is not toml = ["), 0600))

	select {
	case msg := <-w.Events():
		_, ok := msg.(ReloadFailedMsg)
		require.True(t, ok, "expected ReloadFailedMsg, got %T", msg)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload event")
	}
}
