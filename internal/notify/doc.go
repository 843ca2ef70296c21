// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the process-wide notification center.
//
// It owns two presentation-independent pieces of state: a queue of
// transient toast notifications (success, error, warning, info, and
// keyed loading indicators) with per-type auto-dismiss timers, and the
// single-slot confirmation dialog workflow used before destructive
// actions like deleting a character or loading over the current game.
//
// Both local action results and server "notification" pushes funnel
// through the same Center, so failures present identically regardless
// of origin.
//
// The Center is safe for concurrent use. UI layers call Subscribe to be
// told when visible state changes.
package notify
