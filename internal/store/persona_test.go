// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newPersonaFixture(t *testing.T) (*Persona, testDeps) {
	t.Helper()
	deps := newTestDeps()
	return NewPersona(deps.bus, deps.req), deps
}

func TestPersonaSingleDefault(t *testing.T) {
	personas, deps := newPersonaFixture(t)

	// Two flagged defaults with a server-declared winner: the server
	// wins and every other flag clears.
	deps.bus.Deliver("personas_updated", map[string]any{
		"personas": []any{
			map[string]any{"id": "p1", "name": "Narrator", "isDefault": true},
			map[string]any{"id": "p2", "name": "Trickster", "isDefault": true},
		},
		"default_persona": "p2",
	})

	defaults := 0
	for _, p := range personas.All() {
		if p.IsDefault {
			defaults++
			if p.ID != "p2" {
				t.Fatalf("expected p2 as default, got %s", p.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

func TestPersonaDefaultWithoutServerDeclaration(t *testing.T) {
	personas, deps := newPersonaFixture(t)

	deps.bus.Deliver("personas_updated", map[string]any{
		"personas": []any{
			map[string]any{"id": "p1", "isDefault": true},
			map[string]any{"id": "p2", "isDefault": true},
		},
	})

	defaults := 0
	for _, p := range personas.All() {
		if p.IsDefault {
			defaults++
			if p.ID != "p1" {
				t.Fatalf("first flagged persona should win, got %s", p.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

func TestPersonaCurrentFallsBackToDefault(t *testing.T) {
	personas, deps := newPersonaFixture(t)

	deps.bus.Deliver("personas_updated", map[string]any{
		"personas": []any{
			map[string]any{"id": "p1", "isDefault": true},
			map[string]any{"id": "p2"},
		},
		"default_persona": "p1",
	})
	if got := personas.CurrentID(); got != "p1" {
		t.Fatalf("expected default as initial current, got %q", got)
	}

	personas.SetCurrent("p2")
	if got := personas.CurrentID(); got != "p2" {
		t.Fatalf("expected optimistic switch to p2, got %q", got)
	}

	// A replace that drops p2 falls back to the default.
	deps.bus.Deliver("personas_updated", map[string]any{
		"personas": []any{
			map[string]any{"id": "p1", "isDefault": true},
		},
		"default_persona": "p1",
	})
	if got := personas.CurrentID(); got != "p1" {
		t.Fatalf("expected fallback to default after replace, got %q", got)
	}
}

func TestPersonaSetCurrentEmits(t *testing.T) {
	personas, deps := newPersonaFixture(t)

	deps.bus.Deliver("personas_updated", map[string]any{
		"personas": []any{
			map[string]any{"id": "p1", "isDefault": true},
			map[string]any{"id": "p2"},
		},
		"default_persona": "p1",
	})

	personas.SetCurrent("p2")
	switches := deps.bus.Emitted("switch_persona")
	if len(switches) != 1 {
		t.Fatalf("expected 1 switch_persona, got %d", len(switches))
	}
	if got := switches[0].payloadMap()["persona_id"]; got != "p2" {
		t.Fatalf("unexpected persona_id %v", got)
	}
}

func TestPersonaSetCurrentUnknownID(t *testing.T) {
	personas, deps := newPersonaFixture(t)

	deps.bus.Deliver("personas_updated", map[string]any{
		"personas": []any{
			map[string]any{"id": "p1", "isDefault": true},
		},
		"default_persona": "p1",
	})

	personas.SetCurrent("ghost")
	if got := personas.CurrentID(); got != "p1" {
		t.Fatalf("unknown id must not change selection, got %q", got)
	}
	if got := deps.bus.Emitted("switch_persona"); len(got) != 0 {
		t.Fatalf("unknown id must not emit, got %d events", len(got))
	}
	if personas.Err() == "" {
		t.Fatal("expected a recorded error for the unknown id")
	}
}

func TestPersonaCurrentPush(t *testing.T) {
	personas, deps := newPersonaFixture(t)

	deps.bus.Deliver("personas_updated", map[string]any{
		"personas": []any{
			map[string]any{"id": "p1", "isDefault": true},
			map[string]any{"id": "p2"},
		},
		"default_persona": "p1",
	})

	deps.bus.Deliver("current_persona_updated", map[string]any{"current_persona": "p2"})
	if got := personas.CurrentID(); got != "p2" {
		t.Fatalf("expected server-driven switch to p2, got %q", got)
	}

	// Unknown ids in the push are ignored.
	deps.bus.Deliver("current_persona_updated", map[string]any{"current_persona": "ghost"})
	if got := personas.CurrentID(); got != "p2" {
		t.Fatalf("unknown id in push must be ignored, got %q", got)
	}
}

func TestPersonaUploadAvatar(t *testing.T) {
	personas, deps := newPersonaFixture(t)
	uploader := &fakeUploader{}
	personas.SetUploader(uploader)

	deps.bus.Deliver("personas_updated", map[string]any{
		"personas":        []any{map[string]any{"id": "p1", "name": "Narrator"}},
		"default_persona": "p1",
	})

	img := filepath.Join(t.TempDir(), "face.png")
	if err := os.WriteFile(img, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := personas.UploadAvatar(context.Background(), "p1", img); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if len(uploader.personas) != 1 || uploader.personas[0] != "p1:face.png" {
		t.Fatalf("unexpected uploads %v", uploader.personas)
	}

	// The upload bumps the avatar cache key.
	updates := deps.bus.Emitted("update_persona")
	if len(updates) != 1 {
		t.Fatalf("expected 1 update_persona, got %d", len(updates))
	}
	if updates[0].payloadMap()["avatarTimestamp"] == nil {
		t.Fatal("expected an avatarTimestamp field")
	}
}

func TestPersonaUploadAvatarUnknownID(t *testing.T) {
	personas, deps := newPersonaFixture(t)
	uploader := &fakeUploader{}
	personas.SetUploader(uploader)

	err := personas.UploadAvatar(context.Background(), "ghost", "face.png")
	if err == nil {
		t.Fatal("expected an error for an unknown persona")
	}
	if len(uploader.personas) != 0 {
		t.Fatal("unknown id must not reach the uploader")
	}
	if deps.bus.EmitCount() != 0 {
		t.Fatal("unknown id must not emit")
	}
}
