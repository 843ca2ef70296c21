// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "testing"

func newSidebarFixture(t *testing.T) (*Sidebar, *fakeBus) {
	t.Helper()
	bus := newFakeBus()
	return NewSidebar(bus), bus
}

func TestSidebarSceneMirror(t *testing.T) {
	sidebar, bus := newSidebarFixture(t)

	bus.Deliver("scene_updated", map[string]any{
		"scene": "A quiet tavern.",
		"lore":  "The tavern predates the town.",
	})

	scene := sidebar.Scene()
	if scene.Text != "A quiet tavern." {
		t.Fatalf("unexpected scene text %q", scene.Text)
	}
	if scene.Lore != "The tavern predates the town." {
		t.Fatalf("unexpected lore %q", scene.Lore)
	}

	// Bare-string pushes also decode, keeping the established lore.
	bus.Deliver("scene_updated", "A burning tavern.")
	scene = sidebar.Scene()
	if scene.Text != "A burning tavern." {
		t.Fatalf("unexpected scene text %q", scene.Text)
	}
	if scene.Lore != "The tavern predates the town." {
		t.Fatalf("bare-string push must preserve lore, got %q", scene.Lore)
	}
}

func TestSidebarEditCancelRestores(t *testing.T) {
	sidebar, bus := newSidebarFixture(t)
	bus.Deliver("scene_updated", map[string]any{"scene": "A"})

	sidebar.EditScene()
	if sidebar.Draft() != "A" {
		t.Fatalf("draft should seed from the live scene, got %q", sidebar.Draft())
	}
	sidebar.SetDraft("B")
	sidebar.CancelEdit()

	if sidebar.Editing() {
		t.Fatal("cancel should leave edit mode")
	}
	if got := sidebar.Scene().Text; got != "A" {
		t.Fatalf("cancel must restore the live scene, got %q", got)
	}
	if got := bus.Emitted("update_game_state"); len(got) != 0 {
		t.Fatalf("cancel must not emit, got %d events", len(got))
	}
}

func TestSidebarEditSaveApplies(t *testing.T) {
	sidebar, bus := newSidebarFixture(t)
	bus.Deliver("scene_updated", map[string]any{"scene": "A"})

	sidebar.EditScene()
	sidebar.SetDraft("C")
	sidebar.SaveEdit()

	if sidebar.Editing() {
		t.Fatal("save should leave edit mode")
	}
	if got := sidebar.Scene().Text; got != "C" {
		t.Fatalf("save should apply locally, got %q", got)
	}
	saves := bus.Emitted("update_game_state")
	if len(saves) != 1 {
		t.Fatalf("expected 1 update_game_state, got %d", len(saves))
	}
	if got := saves[0].payloadMap()["scene"]; got != "C" {
		t.Fatalf("unexpected scene field %v", got)
	}
}

func TestSidebarMidEditPushUpdatesMirrorNotDraft(t *testing.T) {
	sidebar, bus := newSidebarFixture(t)
	bus.Deliver("scene_updated", map[string]any{"scene": "A"})

	sidebar.EditScene()
	sidebar.SetDraft("B")

	bus.Deliver("scene_updated", map[string]any{"scene": "server rewrite"})

	if got := sidebar.Scene().Text; got != "server rewrite" {
		t.Fatalf("mirror should follow the push, got %q", got)
	}
	if got := sidebar.Draft(); got != "B" {
		t.Fatalf("draft must survive a mid-edit push, got %q", got)
	}
}

func TestSidebarUpdatingFlag(t *testing.T) {
	sidebar, bus := newSidebarFixture(t)

	bus.Deliver("scene_updating", map[string]any{"status": true})
	if !sidebar.Updating() {
		t.Fatal("expected updating flag")
	}

	// The finished scene clears the flag even without an explicit
	// status:false push.
	bus.Deliver("scene_updated", map[string]any{"scene": "done"})
	if sidebar.Updating() {
		t.Fatal("scene_updated should clear the updating flag")
	}
}

func TestSidebarDraftIgnoredOutsideEdit(t *testing.T) {
	sidebar, _ := newSidebarFixture(t)

	sidebar.SetDraft("stray")
	if sidebar.Editing() || sidebar.Draft() != "" {
		t.Fatal("SetDraft outside edit mode must be a no-op")
	}
	sidebar.SaveEdit()
	if sidebar.Scene().Text != "" {
		t.Fatal("SaveEdit outside edit mode must be a no-op")
	}
}

func TestSidebarSelection(t *testing.T) {
	sidebar, _ := newSidebarFixture(t)

	sidebar.SelectCharacter("char1")
	if got := sidebar.SelectedCharacterID(); got != "char1" {
		t.Fatalf("unexpected selection %q", got)
	}
	sidebar.SelectCharacter("")
	if got := sidebar.SelectedCharacterID(); got != "" {
		t.Fatalf("expected cleared selection, got %q", got)
	}
}
