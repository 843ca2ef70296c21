// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store contains the reactive state stores behind the UI.
//
// Each store owns one slice of application state, subscribes to the
// named transport events that mutate it, and exposes read-only derived
// views plus imperative action methods for the presentation layer:
//
//   - Chat: the transcript, thinking indicator, input draft, audio queue,
//     and save/load/reset actions
//   - Character: the server-authoritative party roster
//   - Persona: game-master identities and the current selection
//   - Inventory: the party's carried items
//   - Settings: API key, lore, autosave, and save-path mirrors
//   - Sidebar: scene text with its two-phase edit protocol
//
// Stores are explicitly constructed service objects wired together at
// startup — single-instance semantics without package-level state, and
// fresh instances per test. Mutations are serialized per store by a
// mutex; change subscribers are invoked after every mutation, outside
// the lock. Event handlers never panic and never return errors upward:
// failures become store error state or notifications.
//
// A few rules hold everywhere:
//
//   - Server-authoritative collections (characters, personas) are
//     replaced wholesale on push, never patched, so a store can never
//     hold a partially-updated entry.
//   - Optimistic local mutation is reserved for state with no gameplay
//     consequence (persona selection, avatar cache keys, inventory list
//     edits that the next snapshot reconciles).
//   - Stores never assume ordering across different event names.
package store
