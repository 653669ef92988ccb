package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("CLIPDOCK_CONFIG_DIR", t.TempDir())
	s := LoadSettings()

	assert.Equal(t, 20, s.MaxHistory)
	assert.Equal(t, 500*time.Millisecond, s.PollInterval())
	assert.Equal(t, 30, s.LabelWidth)
	assert.True(t, s.IncludeBookmarks)
	assert.True(t, s.BookmarkIcons)
	assert.Equal(t, "127.0.0.1:0", s.SettingsAddr)
	assert.Equal(t, "info", s.LogLevel)
}

func TestSettingsSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLIPDOCK_CONFIG_DIR", dir)

	s := LoadSettings()
	require.NoError(t, s.Apply(SettingsUpdate{MaxHistory: 50, LabelWidth: 40, IncludeBookmarks: false, BookmarkIcons: true}))

	_, err := os.Stat(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)

	reloaded := LoadSettings()
	assert.Equal(t, 50, reloaded.MaxHistory)
	assert.Equal(t, 40, reloaded.LabelWidth)
	assert.False(t, reloaded.IncludeBookmarks)
	assert.True(t, reloaded.BookmarkIcons)
}

func TestSettingsEnvOverrides(t *testing.T) {
	t.Setenv("CLIPDOCK_CONFIG_DIR", t.TempDir())
	t.Setenv("CLIPDOCK_MAX_HISTORY", "7")
	t.Setenv("CLIPDOCK_INCLUDE_BOOKMARKS", "false")
	t.Setenv("CLIPDOCK_LOG_LEVEL", "debug")
	t.Setenv("CLIPDOCK_POLL_INTERVAL_MS", "10")

	s := LoadSettings()
	assert.Equal(t, 7, s.MaxHistory)
	assert.False(t, s.IncludeBookmarks)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 500, s.PollIntervalMs, "too-fast polling falls back to default")
}

func TestSettingsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLIPDOCK_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{nope"), 0o644))

	s := LoadSettings()
	assert.Equal(t, defaultSettings().MaxHistory, s.MaxHistory)
}

func TestSettingsNormalize(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLIPDOCK_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"max_history":-3,"label_width":0,"include_bookmarks":false}`), 0o644))

	s := LoadSettings()
	assert.Equal(t, 20, s.MaxHistory)
	assert.Equal(t, 30, s.LabelWidth)
	assert.False(t, s.IncludeBookmarks)
}

func TestSettingsApplyValidation(t *testing.T) {
	s := defaultSettings()
	assert.Error(t, s.Apply(SettingsUpdate{MaxHistory: 0, LabelWidth: 10}))
	assert.Error(t, s.Apply(SettingsUpdate{MaxHistory: 10, LabelWidth: -1}))
	assert.Equal(t, 20, s.MaxHistory)
}

func TestMenuOptions(t *testing.T) {
	s := defaultSettings()
	s.LabelWidth = 12
	s.BookmarkIcons = false
	opts := s.MenuOptions()
	assert.Equal(t, 12, opts.LabelWidth)
	assert.True(t, opts.IncludeBookmarks)
	assert.False(t, opts.BookmarkIcons)
}
