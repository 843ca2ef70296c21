// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package game provides the main campaign view for the campfire TUI.
package game

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campfire-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full campaign screen.
func (m Model) View() string {
	if m.quitting {
		return "Until next session.\n"
	}
	if !m.ready {
		return "Gathering the party..."
	}

	header := m.renderHeader()

	var body string
	if dialog, open := m.center.Dialog(); open {
		body = components.RenderDialog(m.theme, dialog, m.dialogFocusConfirm,
			m.width, m.bodyHeight())
	} else if m.showHelp {
		body = m.renderHelp()
	} else {
		body = m.renderMain()
	}

	statusBar := components.RenderStatusBar(m.theme, components.StatusBarData{
		Conn:     m.conn,
		Persona:  m.currentPersonaName(),
		Autosave: m.stores.Settings.Autosave().Enabled,
		Thinking: m.stores.Chat.IsThinking(),
		Width:    m.width,
	})

	sections := []string{header, body}
	if toasts := m.center.Notifications(); len(toasts) > 0 && !m.dialogOpen {
		sections = append(sections, components.RenderToastStack(toasts, m.width, 0))
	}
	sections = append(sections, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// bodyHeight is the vertical space between header and status bar.
func (m Model) bodyHeight() int {
	h := m.height - headerHeight - statusHeight
	if h < 3 {
		h = 3
	}
	return h
}

// renderHeader draws the top banner.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("campfire")
	subtitle := m.theme.HeaderSubtitle.Render("AI campaign table")
	return m.theme.Header.Width(m.width - 2).Render(title + "  " + subtitle)
}

// renderMain draws the transcript column plus the optional sidebar.
func (m Model) renderMain() string {
	column := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderThinkingLine(),
		m.renderInput(),
	)

	if !m.sidebarVisible() {
		return column
	}

	sidebar := components.RenderSidebar(m.theme, components.SidebarData{
		Characters:    m.stores.Characters.All(),
		SelectedID:    m.stores.Sidebar.SelectedCharacterID(),
		Scene:         m.stores.Sidebar.Scene(),
		SceneUpdating: m.stores.Sidebar.Updating(),
		SceneEditing:  m.stores.Sidebar.Editing(),
		SceneDraft:    m.sceneDraftView(),
	}, sidebarWidth, m.bodyHeight())

	return lipgloss.JoinHorizontal(lipgloss.Top, column, sidebar)
}

// sceneDraftView shows the live editor content while focused, falling
// back to the store draft otherwise.
func (m Model) sceneDraftView() string {
	if m.sceneFocus {
		return m.sceneInput.View()
	}
	return m.stores.Sidebar.Draft()
}

// renderThinkingLine reserves one row for the GM thinking spinner so the
// layout does not jump when it starts and stops.
func (m Model) renderThinkingLine() string {
	if m.thinking.IsActive() {
		return " " + m.thinking.View()
	}
	return ""
}

// renderInput draws the player input line.
func (m Model) renderInput() string {
	return m.theme.InputContainer.
		Width(m.transcriptWidth() - 2).
		Render(m.input.View())
}

// renderHelp draws the help overlay listing every key binding.
func (m Model) renderHelp() string {
	groups := m.keyMap.FullHelp()
	titles := []string{"Navigation", "Campaign", "Panels", "Misc"}

	var sections []string
	for i, group := range groups {
		if i < len(titles) {
			sections = append(sections, m.theme.HelpTitle.Render(titles[i]))
		}
		for _, binding := range group {
			help := binding.Help()
			line := m.theme.ShortcutKey.Render(padKey(help.Key)) +
				m.theme.ShortcutDesc.Render(" "+help.Desc)
			sections = append(sections, line)
		}
		sections = append(sections, "")
	}

	box := m.theme.HelpBox.Render(strings.Join(sections, "\n"))
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

// padKey pads key labels so descriptions line up.
func padKey(s string) string {
	const keyCol = 10
	if len(s) >= keyCol {
		return s
	}
	return s + strings.Repeat(" ", keyCol-len(s))
}

// currentPersonaName returns the display name of the active GM persona.
func (m Model) currentPersonaName() string {
	if p, ok := m.stores.Personas.Current(); ok {
		return p.Name
	}
	return ""
}
