// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the campaign client.
//
// This package defines the core domain types used throughout the
// application for representing the chat transcript, party characters,
// game-master personas, inventory, and scene state, along with the
// payload normalization helpers that convert loosely shaped event
// payloads from the server into strict Go types.
//
// # Key Types
//
//   - Message: a single transcript entry (player, GM, system, roll, ...)
//   - Character: a party member with ability scores and combat stats
//   - Persona: a selectable game-master identity/voice
//   - InventoryItem: a single carried item
//   - Scene: the current scene description and campaign lore
//
// # Payload Normalization
//
// Event payloads arrive as map[string]any. All decoding into strict
// types happens here, at the boundary, so stores never propagate
// missing-field checks through business logic:
//
//	msg := model.NormalizeMessage(raw)
//	chars := model.DecodeCharacters(raw["characters"])
package model
