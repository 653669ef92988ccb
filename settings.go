package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"clipdock/history"
	"clipdock/traymenu"
)

// envPrefix namespaces environment overrides, e.g. CLIPDOCK_MAX_HISTORY.
const envPrefix = "clipdock"

// Settings holds all persistent clipdock configuration.
type Settings struct {
	MaxHistory       int    `json:"max_history"`
	PollIntervalMs   int    `json:"poll_interval_ms"`
	LabelWidth       int    `json:"label_width"`
	IncludeBookmarks bool   `json:"include_bookmarks"`
	BookmarkIcons    bool   `json:"bookmark_icons"`
	SettingsAddr     string `json:"settings_addr"`
	LogLevel         string `json:"log_level"`

	path string
	mu   sync.Mutex
}

// envOverrides are applied on top of the settings file. Unset variables
// leave the pointer nil so the file value wins.
type envOverrides struct {
	ConfigDir        string  `envconfig:"CONFIG_DIR"`
	MaxHistory       *int    `envconfig:"MAX_HISTORY"`
	PollIntervalMs   *int    `envconfig:"POLL_INTERVAL_MS"`
	LabelWidth       *int    `envconfig:"LABEL_WIDTH"`
	IncludeBookmarks *bool   `envconfig:"INCLUDE_BOOKMARKS"`
	BookmarkIcons    *bool   `envconfig:"BOOKMARK_ICONS"`
	SettingsAddr     *string `envconfig:"SETTINGS_ADDR"`
	LogLevel         *string `envconfig:"LOG_LEVEL"`
}

func readEnv() envOverrides {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		log.Warn().Err(err).Msg("ignoring invalid environment overrides")
		return envOverrides{}
	}
	return env
}

// settingsDir returns the platform config directory for clipdock.
func settingsDir() string {
	if dir := readEnv().ConfigDir; dir != "" {
		return dir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, _ = os.UserHomeDir()
	}
	return filepath.Join(dir, "clipdock")
}

// settingsPath returns the full path to settings.json.
func settingsPath() string {
	return filepath.Join(settingsDir(), "settings.json")
}

// bookmarksPath returns the full path to bookmarks.json.
func bookmarksPath() string {
	return filepath.Join(settingsDir(), "bookmarks.json")
}

func defaultSettings() *Settings {
	return &Settings{
		MaxHistory:       history.DefaultCapacity,
		PollIntervalMs:   500,
		LabelWidth:       traymenu.DefaultLabelWidth,
		IncludeBookmarks: true,
		BookmarkIcons:    true,
		SettingsAddr:     "127.0.0.1:0",
		LogLevel:         "info",
	}
}

// LoadSettings reads settings from disk (or defaults) and applies
// environment overrides.
func LoadSettings() *Settings {
	s := loadSettingsFile(settingsPath())
	s.applyEnv(readEnv())
	return s
}

func loadSettingsFile(path string) *Settings {
	s := defaultSettings()
	s.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, s); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("settings file unreadable, using defaults")
		s = defaultSettings()
		s.path = path
		return s
	}
	s.normalize()
	return s
}

func (s *Settings) applyEnv(env envOverrides) {
	if env.MaxHistory != nil {
		s.MaxHistory = *env.MaxHistory
	}
	if env.PollIntervalMs != nil {
		s.PollIntervalMs = *env.PollIntervalMs
	}
	if env.LabelWidth != nil {
		s.LabelWidth = *env.LabelWidth
	}
	if env.IncludeBookmarks != nil {
		s.IncludeBookmarks = *env.IncludeBookmarks
	}
	if env.BookmarkIcons != nil {
		s.BookmarkIcons = *env.BookmarkIcons
	}
	if env.SettingsAddr != nil {
		s.SettingsAddr = *env.SettingsAddr
	}
	if env.LogLevel != nil {
		s.LogLevel = *env.LogLevel
	}
	s.normalize()
}

// normalize replaces out-of-range values with defaults.
func (s *Settings) normalize() {
	d := defaultSettings()
	if s.MaxHistory <= 0 {
		s.MaxHistory = d.MaxHistory
	}
	if s.PollIntervalMs < 50 {
		s.PollIntervalMs = d.PollIntervalMs
	}
	if s.LabelWidth <= 0 {
		s.LabelWidth = d.LabelWidth
	}
	if s.SettingsAddr == "" {
		s.SettingsAddr = d.SettingsAddr
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
}

// PollInterval returns the clipboard polling period.
func (s *Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMs) * time.Millisecond
}

// MenuOptions returns the tray menu layout options for these settings.
func (s *Settings) MenuOptions() traymenu.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return traymenu.Options{
		IncludeBookmarks: s.IncludeBookmarks,
		BookmarkIcons:    s.BookmarkIcons,
		LabelWidth:       s.LabelWidth,
	}
}

// SettingsUpdate carries the user-editable fields from the settings window.
type SettingsUpdate struct {
	MaxHistory       int  `json:"max_history"`
	LabelWidth       int  `json:"label_width"`
	IncludeBookmarks bool `json:"include_bookmarks"`
	BookmarkIcons    bool `json:"bookmark_icons"`
}

// Apply validates and stores an update from the settings window.
func (s *Settings) Apply(u SettingsUpdate) error {
	if u.MaxHistory <= 0 {
		return fmt.Errorf("history size must be positive, got %d", u.MaxHistory)
	}
	if u.LabelWidth <= 0 {
		return fmt.Errorf("label width must be positive, got %d", u.LabelWidth)
	}
	s.mu.Lock()
	s.MaxHistory = u.MaxHistory
	s.LabelWidth = u.LabelWidth
	s.IncludeBookmarks = u.IncludeBookmarks
	s.BookmarkIcons = u.BookmarkIcons
	s.mu.Unlock()
	return s.Save()
}

// Save writes settings to disk as pretty-printed JSON.
func (s *Settings) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
