// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for campfire.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.campfire/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/campfire-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete campfire configuration.
type Config struct {
	// Server settings
	Server ServerConfig `toml:"server"`

	// Game settings
	Game GameConfig `toml:"game"`

	// Autosave configuration
	Autosave AutosaveConfig `toml:"autosave"`

	// Voice (speech) configuration
	Voice VoiceConfig `toml:"voice"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// ServerConfig contains campaign server connection configuration.
type ServerConfig struct {
	// URL is the campaign server base URL
	URL string `toml:"url"`
	// RequestTimeoutSecs bounds correlated requests
	RequestTimeoutSecs int `toml:"request_timeout_secs"`
	// ReconnectMaxSecs caps the reconnection backoff
	ReconnectMaxSecs int `toml:"reconnect_max_secs"`
}

// GameConfig contains campaign state configuration.
type GameConfig struct {
	// SaveFilePath is the default save file path sent with save/load requests
	SaveFilePath string `toml:"save_file_path"`
	// TranscriptDB is the path to the local transcript archive
	// (empty = default ~/.campfire/transcript.db)
	TranscriptDB string `toml:"transcript_db"`
	// ArchiveEnabled controls whether messages are archived locally
	ArchiveEnabled bool `toml:"archive_enabled"`
}

// AutosaveConfig contains autosave preferences pushed to the server on
// connect.
type AutosaveConfig struct {
	// Enabled turns server-side autosave on
	Enabled bool `toml:"enabled"`
	// Threshold is the number of messages between autosaves
	Threshold int `toml:"threshold"`
}

// VoiceConfig contains speech input/output configuration.
type VoiceConfig struct {
	// TTSEnabled queues narration audio for playback
	TTSEnabled bool `toml:"tts_enabled"`
	// InputEnabled enables voice transcription of the input draft
	InputEnabled bool `toml:"input_enabled"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light"
	Theme string `toml:"theme"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode"`
	// ShowSidebar displays the party/scene sidebar on start
	ShowSidebar bool `toml:"show_sidebar"`
	// Markdown renders narration as markdown
	Markdown bool `toml:"markdown"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:                "http://127.0.0.1:5000",
			RequestTimeoutSecs: 10,
			ReconnectMaxSecs:   30,
		},
		Game: GameConfig{
			SaveFilePath:   "",
			TranscriptDB:   "",
			ArchiveEnabled: true,
		},
		Autosave: AutosaveConfig{
			Enabled:   false,
			Threshold: 10,
		},
		Voice: VoiceConfig{
			TTSEnabled:   false,
			InputEnabled: false,
		},
		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
			ShowSidebar: true,
			Markdown:    true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the campfire configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".campfire"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// TranscriptDBPath returns the resolved transcript archive path.
func (c *Config) TranscriptDBPath() (string, error) {
	if c.Game.TranscriptDB != "" {
		return c.Game.TranscriptDB, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "transcript.db"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. A missing file is not an error: defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SetDefaults fills in any missing or zero values with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Server.RequestTimeoutSecs == 0 {
		c.Server.RequestTimeoutSecs = defaults.Server.RequestTimeoutSecs
	}
	if c.Server.ReconnectMaxSecs == 0 {
		c.Server.ReconnectMaxSecs = defaults.Server.ReconnectMaxSecs
	}
	if c.Autosave.Threshold == 0 {
		c.Autosave.Threshold = defaults.Autosave.Threshold
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file. The write is atomic
// so a crash mid-save never leaves a truncated config behind.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer

	// Write header comment
	fmt.Fprintln(&buf, "# campfire configuration file")
	fmt.Fprintln(&buf, "# Generated by campfire - edit with care")
	fmt.Fprintln(&buf, "")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Validate server URL
	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "server.url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Server.URL),
			})
		}
	}

	if c.Server.RequestTimeoutSecs < 1 || c.Server.RequestTimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "server.request_timeout_secs",
			Message: fmt.Sprintf("must be 1-300, got %d", c.Server.RequestTimeoutSecs),
		})
	}

	if c.Server.ReconnectMaxSecs < 1 || c.Server.ReconnectMaxSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "server.reconnect_max_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.Server.ReconnectMaxSecs),
		})
	}

	if c.Autosave.Threshold < 1 || c.Autosave.Threshold > 1000 {
		errs = append(errs, ValidationError{
			Field:   "autosave.threshold",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.Autosave.Threshold),
		})
	}

	// Validate UI theme
	validThemes := map[string]bool{"dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CAMPFIRE_SERVER_URL: overrides server.url
//   - CAMPFIRE_SAVE_PATH: overrides game.save_file_path
//   - CAMPFIRE_NO_ARCHIVE: set to "1" or "true" to disable local archival
//   - CAMPFIRE_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if serverURL := os.Getenv("CAMPFIRE_SERVER_URL"); serverURL != "" {
		c.Server.URL = serverURL
	}

	if savePath := os.Getenv("CAMPFIRE_SAVE_PATH"); savePath != "" {
		c.Game.SaveFilePath = savePath
	}

	if noArchive := os.Getenv("CAMPFIRE_NO_ARCHIVE"); noArchive != "" {
		if noArchive == "1" || strings.ToLower(noArchive) == "true" {
			c.Game.ArchiveEnabled = false
		}
	}

	if theme := os.Getenv("CAMPFIRE_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// RequestTimeout returns the correlated-request timeout as a Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSecs) * time.Second
}

// ReconnectMax returns the reconnection backoff cap as a Duration.
func (c *Config) ReconnectMax() time.Duration {
	return time.Duration(c.Server.ReconnectMaxSecs) * time.Second
}

// ChannelURL converts the server base URL to its event channel endpoint,
// switching the scheme to websocket.
func (c *Config) ChannelURL() string {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return c.Server.URL
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/events"
	return u.String()
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
