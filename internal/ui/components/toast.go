// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the campfire TUI.
//
// This file renders the non-blocking toast stack. Toasts appear in the
// bottom-right corner and auto-dismiss on timers owned by the notify
// center; the UI only draws whatever the center currently holds.
package components

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/ui/styles"
)

// maxVisibleToasts caps how many toasts are drawn at once. The center may
// hold more; only the newest are shown.
const maxVisibleToasts = 5

// =============================================================================
// TOAST TICK
// =============================================================================

// ToastTickMsg is sent periodically so countdown hints stay current.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks the toast stack every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast notification.
func RenderToast(n notify.Notification, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var accent lipgloss.AdaptiveColor
	var icon string

	switch n.Kind {
	case notify.KindError:
		accent = styles.Rose
		icon = styles.StatusIndicators.Error
	case notify.KindWarning:
		accent = styles.Amber
		icon = styles.StatusIndicators.Warning
	case notify.KindSuccess:
		accent = styles.Emerald
		icon = styles.StatusIndicators.Success
	case notify.KindLoading:
		accent = styles.Purple
		icon = styles.StatusIndicators.Pending
	default:
		accent = styles.Cyan
		icon = styles.StatusIndicators.Info
	}

	iconStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	message := wordWrap(n.Message, maxWidth-10)
	content := iconStyle.Render(icon+" ") + messageStyle.Render(message)

	if hint := toastHint(n); hint != "" {
		hintStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		content += "\n" + hintStyle.Render(hint)
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2).
		MaxWidth(maxWidth).
		Render(content)
}

// toastHint builds the dismiss/countdown footer line for a toast.
// Loading toasts have no countdown; they clear when the work finishes.
func toastHint(n notify.Notification) string {
	if n.Kind == notify.KindLoading {
		return ""
	}

	hints := []string{"[x] dismiss"}
	if n.Duration > 0 {
		remaining := n.Duration - time.Since(n.CreatedAt)
		if secs := int(remaining.Seconds()); secs > 0 {
			hints = append(hints, strconv.Itoa(secs)+"s")
		}
	}
	return strings.Join(hints, "  ")
}

// RenderToastStack renders notifications stacked in the bottom-right
// corner, newest at the bottom.
func RenderToastStack(toasts []notify.Notification, width, height int) string {
	if len(toasts) == 0 {
		return ""
	}
	if len(toasts) > maxVisibleToasts {
		toasts = toasts[len(toasts)-maxVisibleToasts:]
	}

	rendered := make([]string, 0, len(toasts))
	for _, n := range toasts {
		rendered = append(rendered, RenderToast(n, width))
	}

	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	positioned := lipgloss.NewStyle().
		MarginRight(2).
		MarginBottom(1).
		Render(stack)

	if width > 0 && height > 0 {
		return lipgloss.Place(
			width, height,
			lipgloss.Right, lipgloss.Bottom,
			positioned,
		)
	}

	return positioned
}
