// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the campaign client.
package model

import "github.com/google/uuid"

// =============================================================================
// INVENTORY ITEM
// =============================================================================

// InventoryItem is a single carried item belonging to a character.
type InventoryItem struct {
	ID          string  `json:"id"`
	CharacterID string  `json:"character_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	Value       float64 `json:"value,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Type        string  `json:"type,omitempty"`
	Rarity      string  `json:"rarity,omitempty"`
	Equipped    bool    `json:"equipped"`
}

// NewInventoryItem creates an item with a generated ID.
func NewInventoryItem(characterID, name string, quantity int) InventoryItem {
	return InventoryItem{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		Name:        name,
		Quantity:    quantity,
	}
}

// DecodeInventoryItem converts a loose payload into an InventoryItem.
// An absent ID is synthesized so list selection stays stable client-side.
func DecodeInventoryItem(characterID string, raw map[string]any) InventoryItem {
	item := InventoryItem{
		ID:          Str(raw, "id"),
		CharacterID: Str(raw, "character_id"),
		Name:        Str(raw, "name", "item_name"),
		Description: Str(raw, "description", "item_description"),
		Quantity:    Int(raw, "quantity"),
		Value:       Num(raw, "value"),
		Weight:      Num(raw, "weight"),
		Type:        Str(raw, "type"),
		Rarity:      Str(raw, "rarity"),
		Equipped:    Bool(raw, "equipped"),
	}
	if item.CharacterID == "" {
		item.CharacterID = characterID
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Quantity == 0 {
		item.Quantity = Int(raw, "item_quantity")
	}
	return item
}
