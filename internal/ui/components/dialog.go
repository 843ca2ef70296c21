// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the campfire TUI.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/ui/styles"
)

// =============================================================================
// CONFIRMATION DIALOG
// =============================================================================

// RenderDialog renders the modal confirmation dialog centered on screen.
// focusConfirm selects which button is highlighted.
func RenderDialog(theme *styles.Theme, opts notify.DialogOptions, focusConfirm bool, width, height int) string {
	boxWidth := 50
	if width > 0 && width-10 < boxWidth {
		boxWidth = width - 10
	}
	if boxWidth < 30 {
		boxWidth = 30
	}

	titleStyle := theme.DialogTitle
	if opts.Kind == notify.DialogDanger {
		titleStyle = theme.DialogDanger
	}
	title := titleStyle.Render(opts.Title)

	message := theme.DialogMessage.
		Width(boxWidth - 6).
		Render(wordWrap(opts.Message, boxWidth-6))

	confirmLabel := opts.ConfirmText
	if confirmLabel == "" {
		confirmLabel = "Confirm"
	}
	cancelLabel := opts.CancelText
	if cancelLabel == "" {
		cancelLabel = "Cancel"
	}

	var confirmBtn, cancelBtn string
	if focusConfirm {
		confirmBtn = theme.DialogButtonActive.Render(confirmLabel)
		cancelBtn = theme.DialogButton.Render(cancelLabel)
	} else {
		confirmBtn = theme.DialogButton.Render(confirmLabel)
		cancelBtn = theme.DialogButtonActive.Render(cancelLabel)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, confirmBtn, cancelBtn)

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("tab switch  enter confirm  esc cancel")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		message,
		"",
		buttons,
		hint,
	)

	boxStyle := theme.DialogBox
	if opts.Kind == notify.DialogDanger {
		boxStyle = boxStyle.BorderForeground(styles.Rose)
	}
	box := boxStyle.Width(boxWidth).Render(content)

	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
