// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the campfire TUI.

This package defines the color palette and the Theme type used throughout
the application. All colors use Lip Gloss AdaptiveColor for automatic
light/dark terminal detection.

# Color System (colors.go)

  - Purple - Primary accent for game-master narration and selections
  - Cyan - Brand color for info and player highlights
  - Emerald - Success states, connected indicator, active party members
  - Gold - Treasure, currency, and roll results
  - Amber - Warnings and the reconnecting state
  - Rose - Errors and failed rolls

Message bubbles get dedicated color trios (foreground, background, border)
per speaker: player, game master, and system.

# Theme (theme.go)

Theme bundles every lipgloss style the views need, initialized once at
startup after termenv capability detection. Views never construct styles
inline for anything that appears in more than one place.

# Accessibility

Status states always pair a high-contrast color with an ASCII shape
indicator from StatusIndicators ([OK], [X], [!], [i]) so they remain
distinguishable without color.
*/
package styles
