// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual UI components for the campfire TUI.

Components are stateless render helpers plus a few small Bubble Tea
sub-models:

  - message.go - transcript message rendering, including glamour markdown
    for game-master narration and styled dice roll results
  - sidebar.go - party roster and scene panel
  - statusbar.go - bottom status bar with connection and persona state
  - toast.go - notification toast stack driven by the notify center
  - dialog.go - modal confirmation dialog overlay
  - spinner.go - loading spinner and the "GM is thinking" indicator

Everything renders through the shared styles.Theme so the views stay
consistent across light and dark terminals.
*/
package components
