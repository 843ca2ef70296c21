// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store contains the reactive state stores behind the UI.
package store

import (
	"context"
	"io"
	"sync"
)

// =============================================================================
// AVATAR UPLOADS
// =============================================================================

// AvatarUploader pushes avatar images to the server's REST endpoints.
// Satisfied by api.Client.
type AvatarUploader interface {
	UploadPersonaAvatar(ctx context.Context, personaID, filename string, image io.Reader) (string, error)
	UploadCharacterAvatar(ctx context.Context, characterID, filename string, image io.Reader) (string, error)
}

// =============================================================================
// CHANGE SUBSCRIPTION
// =============================================================================

// subscribers is the change-notification list embedded by every store.
// Callbacks run after the owning store's mutation completes, outside its
// lock, so a subscriber may read the store re-entrantly.
type subscribers struct {
	mu  sync.Mutex
	fns []func()
}

// Add registers a change callback and returns an unsubscribe function.
func (s *subscribers) Add(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
	idx := len(s.fns) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.fns[idx] = nil
	}
}

// Fire invokes every registered callback.
func (s *subscribers) Fire() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.fns))
	for _, fn := range s.fns {
		if fn != nil {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// nopLogf is the default logging hook. The TUI runs on the alternate
// screen, so stores stay silent unless a sink is installed.
func nopLogf(string, ...any) {}
