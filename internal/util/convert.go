// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strconv"

// FormatGold renders a gold balance for display, dropping a trailing
// ".0" so whole amounts read naturally.
func FormatGold(gold float64) string {
	s := strconv.FormatFloat(gold, 'f', 1, 64)
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		s = s[:len(s)-2]
	}
	return s + " gp"
}

// FormatModifier renders an ability modifier with an explicit sign, the
// way stat blocks print them.
func FormatModifier(mod int) string {
	if mod >= 0 {
		return "+" + strconv.Itoa(mod)
	}
	return strconv.Itoa(mod)
}

// AbilityModifier derives the modifier for an ability score.
func AbilityModifier(score int) int {
	mod := score - 10
	if mod < 0 {
		// Round toward negative infinity: a score of 9 is -1, not 0.
		return (mod - 1) / 2
	}
	return mod / 2
}
