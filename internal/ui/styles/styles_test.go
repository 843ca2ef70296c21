// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	assert.NotNil(t, theme)
	assert.NotEmpty(t, theme.GMBubble.Render("x"))
	assert.NotEmpty(t, theme.PlayerBubble.Render("x"))
}

func TestLayoutMode(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestRenderStatusIndicators(t *testing.T) {
	ok := RenderStatus(true, "saved")
	assert.True(t, strings.Contains(ok, "[OK]"))
	assert.True(t, strings.Contains(ok, "saved"))

	bad := RenderStatus(false, "connection lost")
	assert.True(t, strings.Contains(bad, "[X]"))

	assert.True(t, strings.Contains(RenderWarning("low gold"), "[!]"))
	assert.True(t, strings.Contains(RenderInfo("autosave on"), "[i]"))
}
