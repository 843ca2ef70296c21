// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package game provides the main campaign view for the campfire TUI.
package game

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/store"
	"github.com/jeranaias/campfire-tui/internal/transport"
	"github.com/jeranaias/campfire-tui/internal/ui/components"
	"github.com/jeranaias/campfire-tui/internal/ui/styles"
)

// sidebarWidth is the fixed column width of the party/scene panel.
const sidebarWidth = 36

// Stores bundles the reactive stores the view reads.
type Stores struct {
	Chat       *store.Chat
	Characters *store.Character
	Personas   *store.Persona
	Inventory  *store.Inventory
	Settings   *store.Settings
	Sidebar    *store.Sidebar
}

// Options tunes view behavior from configuration.
type Options struct {
	// Markdown enables glamour rendering of GM narration.
	Markdown bool
	// ShowSidebar controls the initial sidebar visibility.
	ShowSidebar bool
	// Compact packs transcript bubbles without separating blank lines.
	Compact bool
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model for the campaign view.
type Model struct {
	theme  *styles.Theme
	stores Stores
	center *notify.Center
	bus    transport.Bus

	// Components
	viewport   viewport.Model
	input      textinput.Model
	sceneInput textinput.Model
	thinking   components.ThinkingIndicator
	renderer   *components.MessageRenderer
	keyMap     KeyMap

	// Layout
	width  int
	height int
	ready  bool

	// View state
	conn               components.ConnState
	showSidebar        bool
	showHelp           bool
	sceneFocus         bool
	dialogOpen         bool
	dialogFocusConfirm bool
	quitting           bool
}

// New creates the campaign view model.
func New(theme *styles.Theme, stores Stores, center *notify.Center, bus transport.Bus, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What do you do?"
	ti.CharLimit = 4096
	ti.Focus()

	si := textinput.New()
	si.Prompt = ""
	si.Placeholder = "Describe the scene..."
	si.CharLimit = 4096

	vp := viewport.New(80, 20)
	vp.SetContent("")

	renderer := components.NewMessageRenderer(theme, 80, opts.Markdown)
	renderer.SetCompact(opts.Compact)

	return Model{
		theme:      theme,
		stores:     stores,
		center:     center,
		bus:        bus,
		viewport:   vp,
		input:      ti,
		sceneInput: si,
		thinking:   components.NewThinkingIndicator(),
		renderer:   renderer,
		keyMap:     DefaultKeyMap(),

		conn:               components.ConnOffline,
		showSidebar:        opts.ShowSidebar,
		dialogFocusConfirm: false,
	}
}

// Init starts cursor blinking and the toast ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		components.ToastTickCmd(),
	)
}

// transcriptWidth returns the width available for the chat column.
func (m Model) transcriptWidth() int {
	w := m.width
	if m.sidebarVisible() {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// sidebarVisible reports whether the sidebar fits and is enabled.
func (m Model) sidebarVisible() bool {
	return m.showSidebar && m.theme.GetLayoutMode() != styles.LayoutNarrow
}
