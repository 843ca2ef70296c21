// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store contains the reactive state stores behind the UI.
package store

import (
	"sync"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/transport"
)

// =============================================================================
// SETTINGS STORE
// =============================================================================

// Settings is a thin reactive wrapper over the editable scalar fields
// mirrored from server pushes: API key, base lore, autosave
// configuration, save path, and the debug flag. Save() batches the
// edited fields into the outgoing update events.
type Settings struct {
	bus    transport.Bus
	req    *transport.Correlator
	center *notify.Center

	mu           sync.Mutex
	apiKey       string
	baseLore     string
	autosave     model.AutosaveSettings
	prefs        *model.AutosaveSettings
	saveFilePath string
	debugMode    bool
	saving       bool

	changed subscribers
}

// NewSettings creates the settings store and registers its
// subscriptions.
func NewSettings(bus transport.Bus, req *transport.Correlator, center *notify.Center) *Settings {
	s := &Settings{
		bus:    bus,
		req:    req,
		center: center,
	}
	s.bind()
	return s
}

// Subscribe registers a change callback.
func (s *Settings) Subscribe(fn func()) func() {
	return s.changed.Add(fn)
}

func (s *Settings) bind() {
	s.bus.On("autosave_settings", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		s.mu.Lock()
		s.autosave.Enabled = model.Bool(raw, "enabled")
		if threshold := model.Int(raw, "threshold"); threshold > 0 {
			s.autosave.Threshold = threshold
		}
		s.mu.Unlock()
		s.changed.Fire()
	})

	s.bus.On("autosave_status", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		s.mu.Lock()
		s.autosave.Enabled = model.Bool(raw, "enabled")
		s.debugMode = model.Bool(raw, "debug_mode")
		s.mu.Unlock()
		s.changed.Fire()
	})

	s.bus.On("save_file_path", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		if path := model.Str(raw, "filepath"); path != "" {
			s.mu.Lock()
			s.saveFilePath = path
			s.mu.Unlock()
			s.changed.Fire()
		}
	})

	s.bus.On(transport.EventConnect, func(any) {
		// Locally configured autosave preferences survive reconnects.
		s.pushPrefs()

		// The correlated getters block, so they must not run on the
		// dispatch goroutine.
		go func() {
			s.FetchAutosaveStatus()
			s.FetchSaveFilePath()
		}()
	})
}

// SetAutosavePrefs records the locally configured autosave preferences
// and pushes them to the server. Every subsequent connect replays the
// push so a server restart cannot lose them.
func (s *Settings) SetAutosavePrefs(prefs model.AutosaveSettings) {
	s.mu.Lock()
	s.prefs = &prefs
	s.mu.Unlock()
	if s.bus.Connected() {
		s.pushPrefs()
	}
}

func (s *Settings) pushPrefs() {
	s.mu.Lock()
	prefs := s.prefs
	s.mu.Unlock()
	if prefs == nil {
		return
	}
	s.bus.Emit("update_game_state", map[string]any{
		"autosave": map[string]any{
			"enabled":   prefs.Enabled,
			"threshold": prefs.Threshold,
		},
	})
}

// =============================================================================
// VIEWS AND SETTERS
// =============================================================================

// APIKey returns the draft API key.
func (s *Settings) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

// SetAPIKey updates the draft API key.
func (s *Settings) SetAPIKey(key string) {
	s.mu.Lock()
	s.apiKey = key
	s.mu.Unlock()
	s.changed.Fire()
}

// BaseLore returns the draft campaign lore.
func (s *Settings) BaseLore() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseLore
}

// SetBaseLore updates the draft campaign lore.
func (s *Settings) SetBaseLore(lore string) {
	s.mu.Lock()
	s.baseLore = lore
	s.mu.Unlock()
	s.changed.Fire()
}

// Autosave returns the autosave mirror.
func (s *Settings) Autosave() model.AutosaveSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autosave
}

// SetAutosave updates the draft autosave configuration.
func (s *Settings) SetAutosave(cfg model.AutosaveSettings) {
	s.mu.Lock()
	s.autosave = cfg
	s.mu.Unlock()
	s.changed.Fire()
}

// SaveFilePath returns the save path mirror.
func (s *Settings) SaveFilePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveFilePath
}

// DebugMode reports the server's debug flag.
func (s *Settings) DebugMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugMode
}

// Saving reports whether a Save is in flight.
func (s *Settings) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// =============================================================================
// ACTIONS
// =============================================================================

// Save batches the edited fields into outgoing events: the API key, the
// autosave configuration, and the base lore each travel on their own
// event, mirroring the server's handlers.
func (s *Settings) Save() {
	s.mu.Lock()
	s.saving = true
	apiKey := s.apiKey
	autosave := s.autosave
	lore := s.baseLore
	s.mu.Unlock()
	s.changed.Fire()

	if apiKey != "" {
		s.bus.Emit("update_api_key", map[string]any{"api_key": apiKey})
	}
	s.bus.Emit("update_game_state", map[string]any{
		"autosave": map[string]any{
			"enabled":   autosave.Enabled,
			"threshold": autosave.Threshold,
		},
	})
	s.bus.Emit("update_lore", map[string]any{"lore": lore})

	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
	s.center.Success("Settings saved")
	s.changed.Fire()
}

// FetchAutosaveStatus pulls the autosave flags via a correlated request.
func (s *Settings) FetchAutosaveStatus() bool {
	res := s.req.Request("get_autosave_status", nil)
	if !res.Success {
		return false
	}
	s.mu.Lock()
	s.autosave.Enabled = res.Bool("enabled")
	s.debugMode = res.Bool("debug_mode")
	s.mu.Unlock()
	s.changed.Fire()
	return true
}

// FetchSaveFilePath pulls the server's save path via a correlated
// request.
func (s *Settings) FetchSaveFilePath() string {
	res := s.req.Request("get_save_file_path", nil)
	if !res.Success {
		return ""
	}
	path := res.Str("filepath")
	if path != "" {
		s.mu.Lock()
		s.saveFilePath = path
		s.mu.Unlock()
		s.changed.Fire()
	}
	return path
}
