// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the campaign client.
package model

import (
	"testing"
)

// =============================================================================
// MESSAGE NORMALIZATION TESTS
// =============================================================================

func TestNormalizeMessage_Defaults(t *testing.T) {
	msg := NormalizeMessage(map[string]any{})

	if msg.ID == "" {
		t.Error("absent id should be synthesized")
	}
	if msg.Sender != "System" {
		t.Errorf("Sender = %q, want %q", msg.Sender, "System")
	}
	if msg.Type != TypeMessage {
		t.Errorf("Type = %q, want %q", msg.Type, TypeMessage)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestNormalizeMessage_ContentFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"content field", map[string]any{"content": "hello"}, "hello"},
		{"message field", map[string]any{"message": "hi there"}, "hi there"},
		{"content wins over message", map[string]any{"content": "a", "message": "b"}, "a"},
		{"trailing newline stripped", map[string]any{"content": "line\n"}, "line"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeMessage(tc.raw).Content; got != tc.want {
				t.Errorf("Content = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeMessage_UnknownTypeFallsBack(t *testing.T) {
	msg := NormalizeMessage(map[string]any{"type": "character"})
	if msg.Type != TypeMessage {
		t.Errorf("unknown type tag should fall back to %q, got %q", TypeMessage, msg.Type)
	}
}

func TestNewThinkingMessage_FixedID(t *testing.T) {
	a := NewThinkingMessage()
	b := NewThinkingMessage()
	if a.ID != ThinkingMessageID || b.ID != ThinkingMessageID {
		t.Error("thinking placeholder must use the fixed ID")
	}
	if !a.IsThinking() {
		t.Error("IsThinking() should be true for the placeholder")
	}
}

// =============================================================================
// CHARACTER DECODE TESTS
// =============================================================================

func TestDecodeCharacters(t *testing.T) {
	raw := map[string]any{
		"char1": map[string]any{
			"name":   "Brynn",
			"class":  "Rogue",
			"race":   "Halfling",
			"active": true,
			"gold":   12.5,
			"ability_scores": map[string]any{
				"strength":  float64(8),
				"dexterity": float64(17),
			},
			"skill_proficiencies": map[string]any{
				"stealth": true,
				"arcana":  false,
			},
			"inventory": []any{
				map[string]any{"name": "Dagger", "quantity": float64(2)},
			},
		},
		"junk": "not an object",
	}

	chars := DecodeCharacters(raw)

	if len(chars) != 1 {
		t.Fatalf("expected 1 character, got %d", len(chars))
	}
	ch := chars["char1"]
	if ch.ID != "char1" || ch.Name != "Brynn" || !ch.Active {
		t.Errorf("unexpected character: %+v", ch)
	}
	if ch.Gold != 12.5 {
		t.Errorf("Gold = %v, want 12.5", ch.Gold)
	}
	if ch.AbilityScores.Dexterity != 17 {
		t.Errorf("Dexterity = %d, want 17", ch.AbilityScores.Dexterity)
	}
	if !ch.SkillProficiencies["stealth"] || ch.SkillProficiencies["arcana"] {
		t.Errorf("skill proficiencies wrong: %+v", ch.SkillProficiencies)
	}
	if len(ch.Inventory) != 1 || ch.Inventory[0].Name != "Dagger" {
		t.Errorf("inventory wrong: %+v", ch.Inventory)
	}
	if ch.Inventory[0].CharacterID != "char1" {
		t.Error("inventory item should inherit the owning character id")
	}
}

// =============================================================================
// PERSONA DECODE TESTS
// =============================================================================

func TestDecodePersonas_ArrayShape(t *testing.T) {
	raw := []any{
		map[string]any{"id": "p1", "name": "Narrator", "isDefault": true},
		map[string]any{"id": "p2", "name": "Villain", "is_favorite": true},
		map[string]any{"name": "no id, dropped"},
	}

	personas := DecodePersonas(raw)

	if len(personas) != 2 {
		t.Fatalf("expected 2 personas, got %d", len(personas))
	}
	if !personas[0].IsDefault {
		t.Error("isDefault should decode")
	}
	if !personas[1].IsFavorite {
		t.Error("is_favorite (snake case) should decode")
	}
}

func TestDecodePersonas_KeyedObjectShape(t *testing.T) {
	raw := map[string]any{
		"p1": map[string]any{"name": "Narrator"},
	}

	personas := DecodePersonas(raw)

	if len(personas) != 1 {
		t.Fatalf("expected 1 persona, got %d", len(personas))
	}
	if personas[0].ID != "p1" {
		t.Errorf("map key should backfill missing id, got %q", personas[0].ID)
	}
}

// =============================================================================
// SCENE DECODE TESTS
// =============================================================================

func TestDecodeScene(t *testing.T) {
	prev := Scene{Text: "old", Lore: "ancient lore"}

	tests := []struct {
		name string
		raw  any
		want Scene
	}{
		{"bare string keeps lore", "a dark cave", Scene{Text: "a dark cave", Lore: "ancient lore"}},
		{"object with both", map[string]any{"scene": "a tavern", "lore": "new lore"}, Scene{Text: "a tavern", Lore: "new lore"}},
		{"object without lore keeps previous", map[string]any{"scene": "a road"}, Scene{Text: "a road", Lore: "ancient lore"}},
		{"garbage keeps previous", 42, prev},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeScene(tc.raw, prev); got != tc.want {
				t.Errorf("DecodeScene() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
