// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package game provides the main campaign view for the campfire TUI.
package game

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/ui/components"
)

// Fixed chrome heights around the transcript viewport.
const (
	headerHeight   = 3
	thinkingHeight = 1
	inputHeight    = 3
	statusHeight   = 1
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TranscriptChangedMsg:
		m.syncInput()
		m.refreshTranscript()
		if cmd := m.syncThinking(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case RosterChangedMsg, PersonasChangedMsg, SceneChangedMsg, SettingsChangedMsg:
		// View reads the stores directly; arriving here forces a redraw.

	case NoticesChangedMsg:
		_, open := m.center.Dialog()
		if open && !m.dialogOpen {
			// Fresh dialog: focus the safe button.
			m.dialogFocusConfirm = false
		}
		m.dialogOpen = open

	case ConnChangedMsg:
		if msg.Connected {
			m.conn = components.ConnOnline
		} else {
			m.conn = components.ConnConnecting
		}

	case components.ToastTickMsg:
		cmds = append(cmds, components.ToastTickCmd())

	default:
		// Spinner frames and other component traffic.
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// resize recomputes component dimensions for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.ready = true

	tw := m.transcriptWidth()
	m.viewport.Width = tw
	vh := height - headerHeight - thinkingHeight - inputHeight - statusHeight
	if vh < 3 {
		vh = 3
	}
	m.viewport.Height = vh

	m.input.Width = tw - 6
	m.sceneInput.Width = sidebarWidth - 8
	m.renderer.SetWidth(tw)
	m.refreshTranscript()
}

// refreshTranscript re-renders the message list into the viewport,
// keeping the view pinned to the bottom when it already was.
func (m *Model) refreshTranscript() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderer.RenderTranscript(m.stores.Chat.Messages()))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// syncInput mirrors the store's input draft into the text input. The
// store owns the draft: sends clear it and voice transcriptions append
// to it, so the store side wins whenever the two disagree.
func (m *Model) syncInput() {
	if draft := m.stores.Chat.Input(); draft != m.input.Value() {
		m.input.SetValue(draft)
		m.input.CursorEnd()
	}
}

// syncThinking aligns the spinner with the store's thinking flag.
func (m *Model) syncThinking() tea.Cmd {
	thinking := m.stores.Chat.IsThinking()
	if thinking && !m.thinking.IsActive() {
		return m.thinking.Start()
	}
	if !thinking && m.thinking.IsActive() {
		m.thinking.Stop()
	}
	return nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes a key press by overlay precedence.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.dialogOpen {
		return m.handleDialogKey(msg)
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q", "enter":
			m.showHelp = false
		}
		return m, nil
	}

	if m.sceneFocus {
		return m.handleSceneKey(msg)
	}

	return m.handleGlobalKey(msg)
}

// handleDialogKey resolves or navigates the modal confirmation dialog.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		m.dialogFocusConfirm = !m.dialogFocusConfirm
	case "enter":
		if m.dialogFocusConfirm {
			m.center.HandleConfirm()
		} else {
			m.center.HandleCancel()
		}
	case "y":
		m.center.HandleConfirm()
	case "n", "esc":
		m.center.HandleCancel()
	}
	return m, nil
}

// handleSceneKey edits the scene draft. Enter saves, escape discards.
func (m Model) handleSceneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.stores.Sidebar.SaveEdit()
		m.exitSceneEdit()
		return m, nil
	case tea.KeyEsc:
		m.stores.Sidebar.CancelEdit()
		m.exitSceneEdit()
		return m, nil
	}

	var cmd tea.Cmd
	m.sceneInput, cmd = m.sceneInput.Update(msg)
	m.stores.Sidebar.SetDraft(m.sceneInput.Value())
	return m, cmd
}

func (m *Model) exitSceneEdit() {
	m.sceneFocus = false
	m.sceneInput.Blur()
	m.input.Focus()
}

// handleGlobalKey handles the campaign view's normal key set.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	// "?" toggles help only on an empty input line, otherwise it is
	// ordinary punctuation.
	case key.Matches(msg, m.keyMap.Help) && m.input.Value() == "":
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.handleCommand() {
			return m, nil
		}
		m.stores.Chat.SendMessage()
		m.syncInput()
		return m, nil

	case key.Matches(msg, m.keyMap.Continue):
		m.stores.Chat.ContinueCampaign()
		return m, nil

	case key.Matches(msg, m.keyMap.Save):
		m.stores.Chat.SaveGame(m.stores.Settings.SaveFilePath())
		return m, nil

	case key.Matches(msg, m.keyMap.Load):
		m.stores.Chat.LoadGame(m.stores.Settings.SaveFilePath())
		return m, nil

	case key.Matches(msg, m.keyMap.Reset):
		m.stores.Chat.ResetGame()
		return m, nil

	case key.Matches(msg, m.keyMap.EditScene):
		m.enterSceneEdit()
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keyMap.NextPersona):
		m.cyclePersona()
		return m, nil

	case key.Matches(msg, m.keyMap.NextCharacter):
		m.cycleCharacter()
		return m, nil

	case key.Matches(msg, m.keyMap.DismissToast):
		m.dismissNewestToast()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp),
		key.Matches(msg, m.keyMap.PageDown),
		key.Matches(msg, m.keyMap.Home),
		key.Matches(msg, m.keyMap.End),
		key.Matches(msg, m.keyMap.Up),
		key.Matches(msg, m.keyMap.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// Everything else edits the input line; the store owns the draft.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.stores.Chat.SetInput(m.input.Value())
	return m, cmd
}

func (m *Model) enterSceneEdit() {
	m.stores.Sidebar.EditScene()
	m.sceneInput.SetValue(m.stores.Sidebar.Draft())
	m.sceneInput.CursorEnd()
	m.sceneInput.Focus()
	m.input.Blur()
	m.sceneFocus = true
	if !m.showSidebar {
		m.showSidebar = true
		m.resize(m.width, m.height)
	}
}

// cyclePersona switches the active game-master persona to the next one.
func (m *Model) cyclePersona() {
	personas := m.stores.Personas.All()
	if len(personas) < 2 {
		return
	}
	current := m.stores.Personas.CurrentID()
	for i, p := range personas {
		if p.ID == current {
			m.stores.Personas.SetCurrent(personas[(i+1)%len(personas)].ID)
			return
		}
	}
	m.stores.Personas.SetCurrent(personas[0].ID)
}

// cycleCharacter moves the sidebar selection through the roster.
func (m *Model) cycleCharacter() {
	chars := m.stores.Characters.All()
	if len(chars) == 0 {
		return
	}
	selected := m.stores.Sidebar.SelectedCharacterID()
	for i, ch := range chars {
		if ch.ID == selected {
			m.stores.Sidebar.SelectCharacter(chars[(i+1)%len(chars)].ID)
			return
		}
	}
	m.stores.Sidebar.SelectCharacter(chars[0].ID)
}

// dismissNewestToast dismisses the most recent dismissible toast.
// Loading toasts only clear when their work finishes.
func (m *Model) dismissNewestToast() {
	toasts := m.center.Notifications()
	for i := len(toasts) - 1; i >= 0; i-- {
		if toasts[i].Kind != notify.KindLoading {
			m.center.Dismiss(toasts[i].ID)
			return
		}
	}
}
