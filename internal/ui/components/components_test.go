// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/ui/styles"
)

func TestWordWrap(t *testing.T) {
	wrapped := wordWrap("the dragon circles the tower once more", 12)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 12, "line %q", line)
	}
	assert.Equal(t, "the dragon circles the tower once more",
		strings.ReplaceAll(wrapped, "\n", " "))
}

func TestWordWrap_PreservesParagraphs(t *testing.T) {
	wrapped := wordWrap("one\n\ntwo", 20)
	assert.Equal(t, "one\n\ntwo", wrapped)
}

func newTestRenderer() *MessageRenderer {
	return NewMessageRenderer(styles.NewTheme(), 80, false)
}

func TestMessageRenderer_Player(t *testing.T) {
	r := newTestRenderer()

	msg := model.NewMessage(model.TypeMessage, "Aria", "We search the room")
	out := r.Render(msg)

	require.NotEmpty(t, out)
	assert.Contains(t, out, "We search the room")
	assert.Contains(t, out, "Aria")
}

func TestMessageRenderer_GMPlainText(t *testing.T) {
	r := newTestRenderer()

	msg := model.NewMessage(model.TypeGM, "", "The door creaks open.")
	out := r.Render(msg)

	assert.Contains(t, out, "The door creaks open.")
	assert.Contains(t, out, "game master")
}

func TestMessageRenderer_ThinkingIsBlank(t *testing.T) {
	r := newTestRenderer()

	out := r.Render(model.NewThinkingMessage())
	assert.Empty(t, out)
}

func TestMessageRenderer_Roll(t *testing.T) {
	r := newTestRenderer()

	msg := model.NewMessage(model.TypeRoll, "Aria", "")
	msg.Data = map[string]any{
		"skill":    "Stealth",
		"roll":     float64(14),
		"modifier": float64(3),
		"total":    float64(17),
		"success":  true,
	}
	out := r.Render(msg)

	assert.Contains(t, out, "Stealth")
	assert.Contains(t, out, "d20=14")
	assert.Contains(t, out, "+3")
	assert.Contains(t, out, "17")
	assert.Contains(t, out, "[OK]")
}

func TestMessageRenderer_RollFailure(t *testing.T) {
	r := newTestRenderer()

	msg := model.NewMessage(model.TypeRoll, "Aria", "Stealth check failed")
	msg.Data = map[string]any{"success": false}
	out := r.Render(msg)

	assert.Contains(t, out, "[X]")
	assert.Contains(t, out, "Stealth check failed")
}

func TestMessageRenderer_Transcript(t *testing.T) {
	r := newTestRenderer()

	msgs := []model.Message{
		model.NewMessage(model.TypeMessage, "Aria", "Hello"),
		model.NewThinkingMessage(),
		model.NewMessage(model.TypeGM, "", "Welcome"),
	}
	out := r.RenderTranscript(msgs)

	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "Welcome")
	assert.NotContains(t, out, "Thinking...")
}

func TestRenderToast_Kinds(t *testing.T) {
	mk := func(kind notify.Kind, d time.Duration) notify.Notification {
		return notify.Notification{
			ID:        "n1",
			Message:   "Game saved",
			Kind:      kind,
			Duration:  d,
			CreatedAt: time.Now(),
		}
	}

	assert.Contains(t, RenderToast(mk(notify.KindSuccess, 3*time.Second), 80), "[OK]")
	assert.Contains(t, RenderToast(mk(notify.KindError, 5*time.Second), 80), "[X]")
	assert.Contains(t, RenderToast(mk(notify.KindWarning, 4*time.Second), 80), "[!]")
	assert.Contains(t, RenderToast(mk(notify.KindInfo, 3*time.Second), 80), "[i]")
}

func TestRenderToast_LoadingHasNoCountdown(t *testing.T) {
	n := notify.Notification{
		ID:        "loading:save",
		Message:   "Saving game...",
		Kind:      notify.KindLoading,
		CreatedAt: time.Now(),
	}
	out := RenderToast(n, 80)

	assert.Contains(t, out, "Saving game...")
	assert.NotContains(t, out, "dismiss")
}

func TestRenderToastStack_Empty(t *testing.T) {
	assert.Empty(t, RenderToastStack(nil, 80, 24))
}

func TestRenderDialog(t *testing.T) {
	theme := styles.NewTheme()
	opts := notify.DialogOptions{
		Title:       "Reset Game",
		Message:     "This will erase the current campaign.",
		ConfirmText: "Reset",
		Kind:        notify.DialogDanger,
	}

	out := RenderDialog(theme, opts, true, 80, 24)

	assert.Contains(t, out, "Reset Game")
	assert.Contains(t, out, "erase the current campaign")
	assert.Contains(t, out, "Reset")
	assert.Contains(t, out, "Cancel")
}

func TestRenderSidebar(t *testing.T) {
	theme := styles.NewTheme()
	data := SidebarData{
		Characters: []model.Character{
			{ID: "c1", Name: "Aria", Active: true, Gold: 12.5, CurrentHP: 9, MaxHP: 10, ArmorClass: 14, Class: "Rogue", Race: "Elf"},
			{ID: "c2", Name: "Borin", Active: false},
		},
		SelectedID: "c1",
		Scene:      model.Scene{Text: "A ruined watchtower."},
	}

	out := RenderSidebar(theme, data, 36, 30)

	assert.Contains(t, out, "Party")
	assert.Contains(t, out, "Aria")
	assert.Contains(t, out, "Borin")
	assert.Contains(t, out, "12.5 gp")
	assert.Contains(t, out, "HP 9/10")
	assert.Contains(t, out, "ruined watchtower")
}

func TestRenderSidebar_SceneEditing(t *testing.T) {
	theme := styles.NewTheme()
	data := SidebarData{
		SceneEditing: true,
		SceneDraft:   "A new dawn over the valley.",
	}

	out := RenderSidebar(theme, data, 36, 30)

	assert.Contains(t, out, "new dawn")
	assert.Contains(t, out, "editing")
}

func TestRenderStatusBar(t *testing.T) {
	theme := styles.NewTheme()

	out := RenderStatusBar(theme, StatusBarData{
		Conn:     ConnOnline,
		Persona:  "The Archivist",
		Autosave: true,
		Width:    100,
	})

	assert.Contains(t, out, "online")
	assert.Contains(t, out, "The Archivist")
	assert.Contains(t, out, "autosave")

	off := RenderStatusBar(theme, StatusBarData{Conn: ConnOffline, Width: 100})
	assert.Contains(t, off, "offline")
}

func TestThinkingIndicator(t *testing.T) {
	ind := NewThinkingIndicator()
	assert.False(t, ind.IsActive())
	assert.Empty(t, ind.View())

	cmd := ind.Start()
	assert.NotNil(t, cmd)
	assert.True(t, ind.IsActive())
	assert.Contains(t, ind.View(), "thinking")

	ind.Stop()
	assert.False(t, ind.IsActive())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "5s", formatElapsed(5*time.Second))
	assert.Equal(t, "1m 30s", formatElapsed(90*time.Second))
}
