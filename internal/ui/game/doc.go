// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package game provides the main campaign view for the campfire TUI.

The Model here is the root Bubble Tea model. It owns the transcript
viewport, the player input line, the scene editor, and the overlays
(confirmation dialog, help, toast stack), and it reads all campaign
state from the reactive stores in internal/store.

# Store wiring

Stores mutate on the transport goroutine, not the Bubble Tea loop.
Subscriptions bridges the two worlds: it subscribes to every store and
forwards each change as a typed tea.Msg through program.Send, so the
Update loop re-reads store state only when something actually changed.

# Key handling

Key precedence is dialog > help overlay > scene editor > global keys >
input line. The confirmation dialog is modal: while it is open every
key either resolves it or is swallowed.
*/
package game
