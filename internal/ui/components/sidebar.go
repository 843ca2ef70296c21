// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the campfire TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/ui/styles"
	"github.com/jeranaias/campfire-tui/internal/util"
)

// =============================================================================
// SIDEBAR STATE
// =============================================================================

// SidebarData carries everything the sidebar draws in one frame.
type SidebarData struct {
	Characters []model.Character
	SelectedID string

	Scene         model.Scene
	SceneUpdating bool
	SceneEditing  bool
	SceneDraft    string
}

// =============================================================================
// SIDEBAR RENDERING
// =============================================================================

// RenderSidebar renders the party roster and current scene panel.
func RenderSidebar(theme *styles.Theme, data SidebarData, width, height int) string {
	inner := width - 4
	if inner < 16 {
		inner = 16
	}

	sections := []string{
		renderParty(theme, data, inner),
		"",
		renderScene(theme, data, inner),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	box := theme.SidebarBox.Width(width - 2)
	if height > 0 {
		box = box.Height(height - 2)
	}
	return box.Render(content)
}

// renderParty renders the roster with active markers and gold totals.
func renderParty(theme *styles.Theme, data SidebarData, width int) string {
	lines := []string{theme.SidebarTitle.Render("Party")}

	if len(data.Characters) == 0 {
		lines = append(lines, theme.PartyInactive.Render("  no characters yet"))
		return strings.Join(lines, "\n")
	}

	for _, ch := range data.Characters {
		marker := styles.StatusIndicators.Pending
		nameStyle := theme.PartyInactive
		if ch.Active {
			marker = styles.StatusIndicators.Active
			nameStyle = theme.PartyName
		}
		if ch.ID == data.SelectedID {
			nameStyle = theme.PartyNameFocused
		}

		name := util.TruncateWidth(ch.Name, width-8)
		line := marker + " " + nameStyle.Render(name)
		if ch.IsLeader {
			line += theme.PartyStat.Render(" (leader)")
		}
		lines = append(lines, line)

		// Detail rows for the selected character.
		if ch.ID == data.SelectedID {
			lines = append(lines, characterDetail(theme, ch)...)
		}
	}

	return strings.Join(lines, "\n")
}

// characterDetail renders the stat rows under the selected party member.
func characterDetail(theme *styles.Theme, ch model.Character) []string {
	var rows []string

	if ch.Class != "" || ch.Race != "" {
		descr := strings.TrimSpace(ch.Race + " " + ch.Class)
		rows = append(rows, "  "+theme.PartyStat.Render(descr))
	}

	hp := "  " + theme.PartyStat.Render(
		"HP "+strconv.Itoa(ch.CurrentHP)+"/"+strconv.Itoa(ch.MaxHP)+
			"  AC "+strconv.Itoa(ch.ArmorClass))
	rows = append(rows, hp)

	rows = append(rows, "  "+theme.PartyGold.Render(util.FormatGold(ch.Gold)))

	if ch.AbilityScores.Strength > 0 {
		mods := "STR " + util.FormatModifier(util.AbilityModifier(ch.AbilityScores.Strength)) +
			" DEX " + util.FormatModifier(util.AbilityModifier(ch.AbilityScores.Dexterity)) +
			" CHA " + util.FormatModifier(util.AbilityModifier(ch.AbilityScores.Charisma))
		rows = append(rows, "  "+theme.PartyStat.Render(mods))
	}

	return rows
}

// renderScene renders the scene text, or the draft while editing.
func renderScene(theme *styles.Theme, data SidebarData, width int) string {
	title := theme.SidebarTitle.Render("Scene")
	if data.SceneUpdating {
		title += " " + theme.SceneUpdating.Render("updating")
	}
	lines := []string{title}

	if data.SceneEditing {
		lines = append(lines,
			theme.SceneDraft.Width(width).Render(wordWrap(data.SceneDraft, width-2)),
			theme.SceneUpdating.Render("editing: enter save, esc discard"),
		)
		return strings.Join(lines, "\n")
	}

	text := data.Scene.Text
	if strings.TrimSpace(text) == "" {
		text = "The campfire crackles. No scene has been set."
	}
	lines = append(lines, theme.SceneText.Render(wordWrap(text, width)))

	return strings.Join(lines, "\n")
}
