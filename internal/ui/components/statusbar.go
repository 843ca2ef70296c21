// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the campfire TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campfire-tui/internal/ui/styles"
	"github.com/jeranaias/campfire-tui/internal/util"
)

// =============================================================================
// CONNECTION STATE
// =============================================================================

// ConnState describes the transport link for status display.
type ConnState int

const (
	ConnOffline ConnState = iota
	ConnConnecting
	ConnOnline
)

// String returns the display string for the connection state.
func (c ConnState) String() string {
	switch c {
	case ConnOnline:
		return "online"
	case ConnConnecting:
		return "reconnecting"
	default:
		return "offline"
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBarData carries the fields shown in the bottom bar.
type StatusBarData struct {
	Conn     ConnState
	Persona  string
	Autosave bool
	Thinking bool
	Width    int
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(theme *styles.Theme, data StatusBarData) string {
	var left []string

	switch data.Conn {
	case ConnOnline:
		left = append(left, theme.ConnOnline.Render(styles.StatusIndicators.Active+" "+data.Conn.String()))
	case ConnConnecting:
		left = append(left, theme.ConnRetrying.Render(styles.StatusIndicators.Warning+" "+data.Conn.String()))
	default:
		left = append(left, theme.ConnOffline.Render(styles.StatusIndicators.Error+" "+data.Conn.String()))
	}

	if data.Persona != "" {
		left = append(left, theme.PersonaBadge.Render("GM: "+util.TruncateWidth(data.Persona, 20)))
	}
	if data.Autosave {
		left = append(left, theme.AutosaveActive.Render("autosave"))
	}
	if data.Thinking {
		left = append(left, theme.ConnRetrying.Render("thinking"))
	}

	leftView := strings.Join(left, "  ")

	shortcuts := []string{
		theme.ShortcutKey.Render("^G") + theme.ShortcutDesc.Render(" continue"),
		theme.ShortcutKey.Render("^S") + theme.ShortcutDesc.Render(" save"),
		theme.ShortcutKey.Render("^E") + theme.ShortcutDesc.Render(" scene"),
		theme.ShortcutKey.Render("?") + theme.ShortcutDesc.Render(" help"),
	}
	rightView := strings.Join(shortcuts, " ")

	gap := data.Width - lipgloss.Width(leftView) - lipgloss.Width(rightView) - 2
	if gap < 1 {
		gap = 1
	}

	bar := leftView + strings.Repeat(" ", gap) + rightView
	return theme.StatusBar.Width(data.Width).Render(bar)
}
