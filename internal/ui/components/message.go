// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the campfire TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/ui/styles"
	"github.com/jeranaias/campfire-tui/internal/util"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer turns transcript messages into styled terminal output.
// Game-master narration is rendered through glamour so markdown in the
// narrative (emphasis, lists, headers) displays properly.
type MessageRenderer struct {
	theme    *styles.Theme
	width    int
	markdown bool
	compact  bool
	glam     *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer at the given width.
// When markdown is false, GM narration renders as wrapped plain text.
func NewMessageRenderer(theme *styles.Theme, width int, markdown bool) *MessageRenderer {
	r := &MessageRenderer{
		theme:    theme,
		width:    width,
		markdown: markdown,
	}
	r.rebuildGlamour()
	return r
}

// SetCompact toggles compact layout: bubbles pack together without the
// separating blank line.
func (r *MessageRenderer) SetCompact(compact bool) {
	r.compact = compact
}

// SetWidth updates the render width, rebuilding the markdown renderer so
// word wrap tracks the terminal.
func (r *MessageRenderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	r.rebuildGlamour()
}

func (r *MessageRenderer) rebuildGlamour() {
	if !r.markdown {
		r.glam = nil
		return
	}
	wrap := r.contentWidth()
	g, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails.
		r.glam = nil
		return
	}
	r.glam = g
}

func (r *MessageRenderer) contentWidth() int {
	w := r.width - 12
	if w < 20 {
		w = 20
	}
	return w
}

// Render renders a single transcript message.
func (r *MessageRenderer) Render(msg model.Message) string {
	switch msg.Type {
	case model.TypeGM:
		return r.renderGM(msg)
	case model.TypeSystem:
		return r.renderSystem(msg)
	case model.TypeRoll:
		return r.renderRoll(msg)
	case model.TypeMemory:
		return r.renderMemory(msg)
	case model.TypeThinking:
		// The thinking placeholder is drawn by the spinner, not here.
		return ""
	default:
		return r.renderPlayer(msg)
	}
}

// RenderTranscript renders the full message list, separated by blank
// lines unless compact layout is on.
func (r *MessageRenderer) RenderTranscript(msgs []model.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if v := r.Render(m); v != "" {
			parts = append(parts, v)
		}
	}
	sep := "\n\n"
	if r.compact {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}

// ==========================================================================
// PLAYER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (r *MessageRenderer) renderPlayer(msg model.Message) string {
	content := msg.Content
	if content == "" {
		content = "..."
	}
	wrapped := wordWrap(content, r.contentWidth())
	bubbleWidth := minInt(maxLineWidth(wrapped)+4, r.width-8)

	bubble := r.theme.PlayerBubble.Width(bubbleWidth).Render(wrapped)
	header := r.header(senderOr(msg.Sender, "you"), msg)

	leftMargin := r.width - bubbleWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	margin := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		margin.Render(header),
		margin.Render(bubble),
	)
}

// ==========================================================================
// GM BUBBLE - Purple tones, left-aligned, markdown-aware
// ==========================================================================

func (r *MessageRenderer) renderGM(msg model.Message) string {
	content := msg.Content
	if content == "" {
		content = "..."
	}

	var body string
	if r.glam != nil {
		rendered, err := r.glam.Render(content)
		if err != nil {
			body = wordWrap(content, r.contentWidth())
		} else {
			body = strings.Trim(rendered, "\n")
		}
	} else {
		body = wordWrap(content, r.contentWidth())
	}

	bubbleWidth := minInt(maxLineWidth(body)+4, r.width-8)
	bubble := r.theme.GMBubble.Width(bubbleWidth).Render(body)
	header := r.header(senderOr(msg.Sender, "game master"), msg)

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// SYSTEM BUBBLE - Amber tones, centered
// ==========================================================================

func (r *MessageRenderer) renderSystem(msg model.Message) string {
	content := msg.Content
	if content == "" {
		content = "System message"
	}
	maxContent := r.width - 20
	if maxContent < 30 {
		maxContent = 30
	}
	wrapped := wordWrap(content, maxContent)
	bubbleWidth := minInt(maxLineWidth(wrapped)+4, r.width-16)

	bubble := r.theme.SystemBubble.Width(bubbleWidth).Render(wrapped)
	center := lipgloss.NewStyle().Width(r.width).Align(lipgloss.Center)

	return lipgloss.JoinVertical(lipgloss.Center,
		center.Render(r.header("system", msg)),
		center.Render(bubble),
	)
}

// ==========================================================================
// ROLL RESULT - Emerald on success, Rose on failure
// ==========================================================================

func (r *MessageRenderer) renderRoll(msg model.Message) string {
	roll := msg.RollData()

	line := msg.Content
	success := true
	if roll != nil {
		success = model.Bool(roll, "success")
		if line == "" {
			line = rollSummary(roll)
		}
	}
	wrapped := wordWrap(line, r.contentWidth())

	style := r.theme.RollSuccess
	icon := styles.StatusIndicators.Success
	if !success {
		style = r.theme.RollFail
		icon = styles.StatusIndicators.Error
	}

	header := r.header(senderOr(msg.Sender, "dice"), msg)
	body := style.Render(icon + " " + wrapped)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// rollSummary builds a display line from structured roll data when the
// server sent no prose.
func rollSummary(roll map[string]any) string {
	skill := model.Str(roll, "skill")
	total := int(model.Num(roll, "total"))
	die := int(model.Num(roll, "roll"))
	mod := int(model.Num(roll, "modifier"))

	var b strings.Builder
	if skill != "" {
		b.WriteString(skill)
		b.WriteString(" check: ")
	}
	b.WriteString("d20=")
	b.WriteString(strconv.Itoa(die))
	if mod != 0 {
		b.WriteString(" ")
		b.WriteString(util.FormatModifier(mod))
	}
	b.WriteString(" = ")
	b.WriteString(strconv.Itoa(total))
	return b.String()
}

// ==========================================================================
// MEMORY NOTE - Muted italic aside
// ==========================================================================

func (r *MessageRenderer) renderMemory(msg model.Message) string {
	content := msg.Content
	if content == "" {
		return ""
	}
	wrapped := wordWrap("(remembers) "+content, r.contentWidth())
	return r.theme.MemoryNote.Render(wrapped)
}

// ==========================================================================
// SHARED PIECES
// ==========================================================================

func (r *MessageRenderer) header(role string, msg model.Message) string {
	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render(role)

	if !msg.Timestamp.IsZero() {
		ts := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(msg.Timestamp.Format("15:04"))
		header += " " + ts
	}
	return header
}

func senderOr(sender, fallback string) string {
	if strings.TrimSpace(sender) == "" {
		return fallback
	}
	return sender
}
