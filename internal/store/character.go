// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store contains the reactive state stores behind the UI.
package store

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/transport"
)

// =============================================================================
// CHARACTER STORE
// =============================================================================

// GoldMode selects the arithmetic applied by SetGold. All gold math is
// server-side; the client only names the operation.
type GoldMode string

const (
	GoldAdd    GoldMode = "add"
	GoldRemove GoldMode = "remove"
	GoldSet    GoldMode = "set"
)

// Character maintains the authoritative party roster. The map is
// replaced wholesale on every characters_updated push — never patched —
// so the store can never hold a partially-updated character. Combat
// state is never mutated optimistically: actions emit events and wait
// for the authoritative push, avoiding flicker-and-rollback visuals.
type Character struct {
	bus transport.Bus
	req *transport.Correlator

	mu         sync.Mutex
	uploader   AvatarUploader
	characters map[string]model.Character
	ids        []string
	voices     []model.TTSVoice
	loading    bool

	changed subscribers
	logf    func(format string, args ...any)
}

// NewCharacter creates the character store and registers its
// subscriptions.
func NewCharacter(bus transport.Bus, req *transport.Correlator) *Character {
	c := &Character{
		bus:        bus,
		req:        req,
		characters: make(map[string]model.Character),
		loading:    true,
		logf:       nopLogf,
	}
	c.bind()
	return c
}

// SetLogf installs a logging hook.
func (c *Character) SetLogf(logf func(format string, args ...any)) {
	if logf != nil {
		c.logf = logf
	}
}

// Subscribe registers a change callback.
func (c *Character) Subscribe(fn func()) func() {
	return c.changed.Add(fn)
}

func (c *Character) bind() {
	c.bus.On("characters_updated", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			c.logf("character: malformed characters_updated payload %T", data)
			return
		}
		chars := model.Map(raw, "characters")
		if chars == nil {
			c.logf("character: characters_updated without characters object")
			return
		}
		c.replace(model.DecodeCharacters(chars))
	})

	c.bus.On("tts_voices", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		voices := model.DecodeTTSVoices(model.Slice(raw, "voices"))
		c.mu.Lock()
		c.voices = voices
		c.mu.Unlock()
		c.changed.Fire()
	})

	// The init replay normally populates the roster; the fetch covers
	// servers that wait to be asked. Request blocks, so it must not run
	// on the dispatch goroutine.
	c.bus.On(transport.EventConnect, func(any) {
		c.mu.Lock()
		empty := len(c.characters) == 0
		c.mu.Unlock()
		if empty {
			go c.Fetch()
		}
	})
}

// replace swaps in a new roster wholesale.
func (c *Character) replace(chars map[string]model.Character) {
	ids := make([]string, 0, len(chars))
	for id := range chars {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	c.mu.Lock()
	c.characters = chars
	c.ids = ids
	c.loading = false
	c.mu.Unlock()

	c.changed.Fire()
}

// =============================================================================
// VIEWS
// =============================================================================

// All returns every character in stable id order.
func (c *Character) All() []model.Character {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Character, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.characters[id])
	}
	return out
}

// Active returns the characters currently in the party.
func (c *Character) Active() []model.Character {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Character, 0, len(c.ids))
	for _, id := range c.ids {
		if ch := c.characters[id]; ch.Active {
			out = append(out, ch)
		}
	}
	return out
}

// ByID returns a character by id.
func (c *Character) ByID(id string) (model.Character, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.characters[id]
	return ch, ok
}

// Loading reports whether the first roster push is still outstanding.
func (c *Character) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Voices returns the available TTS narration voices.
func (c *Character) Voices() []model.TTSVoice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.TTSVoice, len(c.voices))
	copy(out, c.voices)
	return out
}

// =============================================================================
// ACTIONS
// =============================================================================

// ToggleActive flips a character's party-membership flag server-side.
// The local flag is NOT flipped optimistically; the authoritative
// characters_updated push applies the change. Unknown ids are logged
// no-ops.
func (c *Character) ToggleActive(id string) {
	if !c.known(id) {
		return
	}
	c.bus.Emit("toggle_character_active", map[string]any{"character_id": id})
}

// SetGold mutates a character's gold balance server-side. mode selects
// relative or absolute arithmetic.
func (c *Character) SetGold(id string, amount float64, mode GoldMode) {
	if !c.known(id) {
		return
	}
	event := "update_character_gold"
	switch mode {
	case GoldAdd:
		event = "add_character_gold"
	case GoldRemove:
		event = "remove_character_gold"
	}
	c.bus.Emit(event, map[string]any{
		"character_id": id,
		"gold_amount":  amount,
	})
}

// Create submits a new character. Creation and update both funnel
// through the keyed upsert event.
func (c *Character) Create(ch model.Character) {
	c.upsert(ch)
}

// Update submits changed fields for an existing character.
func (c *Character) Update(ch model.Character) {
	c.upsert(ch)
}

func (c *Character) upsert(ch model.Character) {
	if ch.ID == "" {
		c.logf("character: upsert without id")
		return
	}
	c.bus.Emit("update_characters", map[string]any{
		"characters": map[string]any{ch.ID: ch},
	})
}

// Delete removes a character server-side.
func (c *Character) Delete(id string) {
	if !c.known(id) {
		return
	}
	c.bus.Emit("delete_character", map[string]any{"character_id": id})
}

// RollSkill triggers a server-side skill check; the result arrives as a
// roll message in the transcript.
func (c *Character) RollSkill(id, skillName string) {
	if !c.known(id) {
		return
	}
	c.bus.Emit("roll_skill", map[string]any{
		"character_id": id,
		"skill_name":   skillName,
	})
}

// TryVoice asks the server to speak a sample with the given voice.
func (c *Character) TryVoice(voiceID string) {
	c.bus.Emit("tts_voice_test", map[string]any{"voice_id": voiceID})
}

// Fetch pulls the roster via a correlated request.
func (c *Character) Fetch() bool {
	res := c.req.Request("get_characters", nil)
	if !res.Success {
		return false
	}
	chars, ok := res.Data["characters"].(map[string]any)
	if !ok {
		return false
	}
	c.replace(model.DecodeCharacters(chars))
	return true
}

// SetUploader installs the REST client used for avatar images.
func (c *Character) SetUploader(u AvatarUploader) {
	c.mu.Lock()
	c.uploader = u
	c.mu.Unlock()
}

// UploadAvatar sends the image at path to the server for the given
// character. The refreshed portrait arrives with the next
// characters_updated push, so there is no optimistic local edit.
func (c *Character) UploadAvatar(ctx context.Context, id, path string) error {
	c.mu.Lock()
	uploader := c.uploader
	c.mu.Unlock()

	if uploader == nil {
		return errors.New("avatar uploads are not configured")
	}
	if !c.known(id) {
		return errors.New("unknown character " + id)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = uploader.UploadCharacterAvatar(ctx, id, path, f)
	return err
}

// known reports whether an id is in the roster, logging when it is not.
// The server would ignore the operation anyway; skipping the emit saves
// the round-trip.
func (c *Character) known(id string) bool {
	c.mu.Lock()
	_, ok := c.characters[id]
	c.mu.Unlock()
	if !ok {
		c.logf("character: operation on unknown id %q", id)
	}
	return ok
}
