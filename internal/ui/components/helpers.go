// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the campfire TUI.
package components

import (
	"strings"

	"github.com/jeranaias/campfire-tui/internal/util"
)

// wordWrap performs simple word wrapping at display width.
func wordWrap(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		var line strings.Builder
		lineWidth := 0
		for _, word := range words {
			w := util.StringWidth(word)
			if lineWidth == 0 {
				line.WriteString(word)
				lineWidth = w
			} else if lineWidth+1+w <= maxWidth {
				line.WriteString(" ")
				line.WriteString(word)
				lineWidth += 1 + w
			} else {
				out = append(out, line.String())
				line.Reset()
				line.WriteString(word)
				lineWidth = w
			}
		}
		out = append(out, line.String())
	}

	return strings.Join(out, "\n")
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
