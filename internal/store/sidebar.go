// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"strings"
	"sync"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/transport"
)

// =============================================================================
// SIDEBAR STORE
// =============================================================================

// Sidebar mirrors the current scene and holds panel-local UI state: the
// two-phase scene editor and the selected party member.
//
// Scene edits are two-phase: EditScene snapshots the live text into a
// draft, SaveEdit pushes the draft to the server, and CancelEdit throws
// the draft away. Server pushes that land mid-edit update the mirror
// but never the draft.
type Sidebar struct {
	bus transport.Bus

	mu       sync.Mutex
	scene    model.Scene
	updating bool
	editing  bool
	draft    string
	selected string

	changed subscribers
	logf    func(format string, args ...any)
}

// NewSidebar creates the sidebar store and registers its subscriptions.
func NewSidebar(bus transport.Bus) *Sidebar {
	s := &Sidebar{
		bus:  bus,
		logf: nopLogf,
	}
	s.bind()
	return s
}

// SetLogf installs a diagnostic log hook.
func (s *Sidebar) SetLogf(fn func(format string, args ...any)) {
	if fn != nil {
		s.logf = fn
	}
}

// Subscribe registers a change callback.
func (s *Sidebar) Subscribe(fn func()) func() {
	return s.changed.Add(fn)
}

func (s *Sidebar) bind() {
	s.bus.On("scene_updated", func(data any) {
		s.mu.Lock()
		s.scene = model.DecodeScene(data, s.scene)
		s.updating = false
		s.mu.Unlock()
		s.changed.Fire()
	})

	s.bus.On("scene_updating", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		s.mu.Lock()
		s.updating = model.Bool(raw, "status")
		s.mu.Unlock()
		s.changed.Fire()
	})
}

// =============================================================================
// VIEWS
// =============================================================================

// Scene returns the current scene mirror.
func (s *Sidebar) Scene() model.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

// Updating reports whether the server is regenerating the scene.
func (s *Sidebar) Updating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating
}

// Editing reports whether a scene edit is in progress.
func (s *Sidebar) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// Draft returns the in-progress edit text. Meaningful only while
// Editing reports true.
func (s *Sidebar) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SelectedCharacterID returns the party member highlighted in the
// sidebar, or "".
func (s *Sidebar) SelectedCharacterID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// =============================================================================
// ACTIONS
// =============================================================================

// EditScene enters edit mode, seeding the draft from the live scene
// text. Re-entering while already editing keeps the existing draft.
func (s *Sidebar) EditScene() {
	s.mu.Lock()
	if !s.editing {
		s.editing = true
		s.draft = s.scene.Text
	}
	s.mu.Unlock()
	s.changed.Fire()
}

// SetDraft replaces the in-progress edit text. Ignored outside edit
// mode.
func (s *Sidebar) SetDraft(text string) {
	s.mu.Lock()
	if !s.editing {
		s.mu.Unlock()
		return
	}
	s.draft = text
	s.mu.Unlock()
	s.changed.Fire()
}

// SaveEdit pushes the draft to the server and applies it locally. The
// scene is the player's own narration, so the local mirror updates
// immediately rather than waiting for the echo.
func (s *Sidebar) SaveEdit() {
	s.mu.Lock()
	if !s.editing {
		s.mu.Unlock()
		return
	}
	text := strings.TrimSpace(s.draft)
	s.editing = false
	s.draft = ""
	s.scene.Text = text
	s.mu.Unlock()

	s.bus.Emit("update_game_state", map[string]any{"scene": text})
	s.changed.Fire()
}

// CancelEdit discards the draft and leaves the live scene untouched.
func (s *Sidebar) CancelEdit() {
	s.mu.Lock()
	if !s.editing {
		s.mu.Unlock()
		return
	}
	s.editing = false
	s.draft = ""
	s.mu.Unlock()
	s.changed.Fire()
}

// SelectCharacter highlights a party member. An empty id clears the
// selection.
func (s *Sidebar) SelectCharacter(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
	s.changed.Fire()
}
