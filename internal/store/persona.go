// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store contains the reactive state stores behind the UI.
package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/transport"
)

// =============================================================================
// PERSONA STORE
// =============================================================================

// Persona maintains the game-master persona collection and the single
// current selection. The collection is replaced wholesale on
// personas_updated pushes; exactly one persona is marked default once
// any exist.
//
// Persona selection is optimistic: switching has no gameplay-state
// consequence, so the local selection updates immediately and the switch
// event follows.
type Persona struct {
	bus transport.Bus
	req *transport.Correlator

	mu        sync.Mutex
	uploader  AvatarUploader
	personas  []model.Persona
	currentID string
	lastErr   string

	changed subscribers
	logf    func(format string, args ...any)
}

// NewPersona creates the persona store and registers its subscriptions.
func NewPersona(bus transport.Bus, req *transport.Correlator) *Persona {
	p := &Persona{
		bus:  bus,
		req:  req,
		logf: nopLogf,
	}
	p.bind()
	return p
}

// SetLogf installs a logging hook.
func (p *Persona) SetLogf(logf func(format string, args ...any)) {
	if logf != nil {
		p.logf = logf
	}
}

// Subscribe registers a change callback.
func (p *Persona) Subscribe(fn func()) func() {
	return p.changed.Add(fn)
}

func (p *Persona) bind() {
	p.bus.On("personas_updated", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			p.logf("persona: malformed personas_updated payload %T", data)
			return
		}
		p.load(model.DecodePersonas(raw["personas"]), model.Str(raw, "default_persona"))
	})

	p.bus.On("current_persona_updated", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		id := model.Str(raw, "current_persona")
		if id == "" {
			return
		}
		p.mu.Lock()
		if p.byIDLocked(id) != nil {
			p.currentID = id
		}
		p.mu.Unlock()
		p.changed.Fire()
	})
}

// load replaces the collection wholesale and enforces the
// single-default invariant: the server-declared default wins, every
// other persona's flag clears.
func (p *Persona) load(personas []model.Persona, defaultID string) {
	p.mu.Lock()
	for i := range personas {
		if defaultID != "" {
			personas[i].IsDefault = personas[i].ID == defaultID
		}
	}
	if defaultID == "" {
		// No server-declared default: keep at most the first flagged one.
		seen := false
		for i := range personas {
			if personas[i].IsDefault {
				if seen {
					personas[i].IsDefault = false
				}
				seen = true
			}
		}
	}
	p.personas = personas

	// Keep the current selection if it survived the replace; otherwise
	// fall back to the default.
	if p.byIDLocked(p.currentID) == nil {
		p.currentID = ""
		for _, persona := range personas {
			if persona.IsDefault {
				p.currentID = persona.ID
				break
			}
		}
	}
	p.lastErr = ""
	p.mu.Unlock()

	p.changed.Fire()
}

// =============================================================================
// VIEWS
// =============================================================================

// All returns a snapshot of the persona collection.
func (p *Persona) All() []model.Persona {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Persona, len(p.personas))
	copy(out, p.personas)
	return out
}

// Current returns the currently selected persona, if any.
func (p *Persona) Current() (model.Persona, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if persona := p.byIDLocked(p.currentID); persona != nil {
		return *persona, true
	}
	return model.Persona{}, false
}

// CurrentID returns the id of the current selection, or "".
func (p *Persona) CurrentID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentID
}

// ByID returns a persona by id.
func (p *Persona) ByID(id string) (model.Persona, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if persona := p.byIDLocked(id); persona != nil {
		return *persona, true
	}
	return model.Persona{}, false
}

// Err returns the last recorded store error, or "".
func (p *Persona) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Persona) byIDLocked(id string) *model.Persona {
	if id == "" {
		return nil
	}
	for i := range p.personas {
		if p.personas[i].ID == id {
			return &p.personas[i]
		}
	}
	return nil
}

// =============================================================================
// ACTIONS
// =============================================================================

// SetCurrent switches the active persona. Unknown ids fail silently into
// the error field — the server is authoritative about the collection, so
// a stale id is not worth a round-trip.
func (p *Persona) SetCurrent(id string) {
	p.mu.Lock()
	if p.byIDLocked(id) == nil {
		p.lastErr = "Persona not found"
		p.mu.Unlock()
		p.changed.Fire()
		return
	}
	p.currentID = id
	p.lastErr = ""
	p.mu.Unlock()

	p.bus.Emit("switch_persona", map[string]any{"persona_id": id})
	p.changed.Fire()
}

// Create submits a new persona. The collection updates when the server
// pushes personas_updated.
func (p *Persona) Create(persona model.Persona) {
	p.bus.Emit("create_persona", map[string]any{
		"name":        persona.Name,
		"description": persona.Description,
		"avatar":      persona.Avatar,
	})
}

// Update submits field updates for a persona. Avatar changes carry a
// fresh cache-busting timestamp.
func (p *Persona) Update(id string, updates map[string]any) {
	if _, ok := p.ByID(id); !ok {
		p.logf("persona: update for unknown id %q", id)
		return
	}
	payload := map[string]any{"persona_id": id}
	for k, v := range updates {
		payload[k] = v
	}
	if _, ok := updates["avatar"]; ok {
		payload["avatarTimestamp"] = time.Now().UnixMilli()
	}
	p.bus.Emit("update_persona", payload)
}

// Delete removes a persona server-side.
func (p *Persona) Delete(id string) {
	p.bus.Emit("delete_persona", map[string]any{"persona_id": id})
}

// SetAsDefault marks a persona as the collection default. The
// single-default invariant is enforced when the server confirms via
// personas_updated.
func (p *Persona) SetAsDefault(id string) {
	p.bus.Emit("set_default_persona", map[string]any{"persona_id": id})
}

// ToggleFavorite flips a persona's favorite flag server-side.
func (p *Persona) ToggleFavorite(id string) {
	persona, ok := p.ByID(id)
	if !ok {
		p.mu.Lock()
		p.lastErr = "Persona not found"
		p.mu.Unlock()
		p.changed.Fire()
		return
	}
	p.bus.Emit("update_persona", map[string]any{
		"persona_id": id,
		"isFavorite": !persona.IsFavorite,
	})
}

// RefreshAvatar bumps a persona's avatar cache key. This is a deliberate
// read-after-write optimistic update: the local timestamp changes
// immediately for an instant UI refresh, then the same update goes to
// the server. Only a cache key changes, never semantic state.
func (p *Persona) RefreshAvatar(id string) {
	ts := time.Now().UnixMilli()

	p.mu.Lock()
	persona := p.byIDLocked(id)
	if persona == nil {
		p.mu.Unlock()
		return
	}
	persona.AvatarTimestamp = ts
	p.mu.Unlock()
	p.changed.Fire()

	p.bus.Emit("update_persona", map[string]any{
		"persona_id":      id,
		"avatarTimestamp": ts,
	})
}

// SetUploader installs the REST client used for avatar images.
func (p *Persona) SetUploader(u AvatarUploader) {
	p.mu.Lock()
	p.uploader = u
	p.mu.Unlock()
}

// UploadAvatar sends the image at path to the server for the given
// persona, then bumps the avatar cache key so the new image shows
// without waiting for the next push. Blocks on the HTTP round-trip.
func (p *Persona) UploadAvatar(ctx context.Context, id, path string) error {
	p.mu.Lock()
	uploader := p.uploader
	known := p.byIDLocked(id) != nil
	p.mu.Unlock()

	if uploader == nil {
		return errors.New("avatar uploads are not configured")
	}
	if !known {
		return errors.New("unknown persona " + id)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := uploader.UploadPersonaAvatar(ctx, id, path, f); err != nil {
		return err
	}
	p.RefreshAvatar(id)
	return nil
}

// Fetch pulls the persona collection via a correlated request. Used when
// the caller cannot wait for the next push.
func (p *Persona) Fetch() bool {
	res := p.req.Request("get_personas", nil)
	if !res.Success {
		p.mu.Lock()
		p.lastErr = res.Err
		p.mu.Unlock()
		p.changed.Fire()
		return false
	}
	p.load(model.DecodePersonas(res.Data["personas"]), res.Str("default_persona"))
	return true
}
