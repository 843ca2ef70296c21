// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store contains the reactive state stores behind the UI.
package store

import (
	"sync"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/transport"
)

// =============================================================================
// INVENTORY STORE
// =============================================================================

// Inventory maintains the party's carried items. The list is derived
// from character snapshots; item edits are optimistic, reconciled by the
// next snapshot fetch.
type Inventory struct {
	bus transport.Bus
	req *transport.Correlator

	mu      sync.Mutex
	items   []model.InventoryItem
	loading bool
	lastErr string

	changed subscribers
	logf    func(format string, args ...any)
}

// NewInventory creates the inventory store.
func NewInventory(bus transport.Bus, req *transport.Correlator) *Inventory {
	inv := &Inventory{
		bus:  bus,
		req:  req,
		logf: nopLogf,
	}
	// Items derive from character snapshots, which the connect-time
	// fetch pulls. Fetch blocks on a correlated request, so it must not
	// run on the dispatch goroutine.
	inv.bus.On(transport.EventConnect, func(any) {
		inv.mu.Lock()
		empty := len(inv.items) == 0
		inv.mu.Unlock()
		if empty {
			go inv.Fetch()
		}
	})
	return inv
}

// SetLogf installs a logging hook.
func (inv *Inventory) SetLogf(logf func(format string, args ...any)) {
	if logf != nil {
		inv.logf = logf
	}
}

// Subscribe registers a change callback.
func (inv *Inventory) Subscribe(fn func()) func() {
	return inv.changed.Add(fn)
}

// =============================================================================
// VIEWS
// =============================================================================

// Items returns a snapshot of all items.
func (inv *Inventory) Items() []model.InventoryItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]model.InventoryItem, len(inv.items))
	copy(out, inv.items)
	return out
}

// ForCharacter returns the items carried by one character.
func (inv *Inventory) ForCharacter(characterID string) []model.InventoryItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	var out []model.InventoryItem
	for _, item := range inv.items {
		if item.CharacterID == characterID {
			out = append(out, item)
		}
	}
	return out
}

// Err returns the last recorded store error, or "".
func (inv *Inventory) Err() string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.lastErr
}

// =============================================================================
// ACTIONS
// =============================================================================

// Fetch rebuilds the item list from the characters snapshot. Inventory
// lives inside character payloads server-side, so one correlated
// get_characters pull covers the whole party.
func (inv *Inventory) Fetch() bool {
	inv.mu.Lock()
	inv.loading = true
	inv.mu.Unlock()

	res := inv.req.Request("get_characters", nil)

	inv.mu.Lock()
	inv.loading = false
	if !res.Success {
		inv.lastErr = "Failed to load inventory"
		inv.mu.Unlock()
		inv.changed.Fire()
		return false
	}

	var items []model.InventoryItem
	if chars, ok := res.Data["characters"].(map[string]any); ok {
		for id, entry := range chars {
			raw, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			for _, itemRaw := range model.Slice(raw, "inventory") {
				if m, ok := itemRaw.(map[string]any); ok {
					items = append(items, model.DecodeInventoryItem(id, m))
				}
			}
		}
	}
	inv.items = items
	inv.lastErr = ""
	inv.mu.Unlock()

	inv.changed.Fire()
	return true
}

// Add creates an item on a character. The local list updates
// optimistically; the next snapshot reconciles.
func (inv *Inventory) Add(item model.InventoryItem) {
	if item.ID == "" {
		item = model.NewInventoryItem(item.CharacterID, item.Name, item.Quantity)
	}
	inv.bus.Emit("add_inventory_item", map[string]any{
		"character_id":     item.CharacterID,
		"item_name":        item.Name,
		"item_description": item.Description,
		"item_quantity":    item.Quantity,
		"value":            item.Value,
		"weight":           item.Weight,
		"type":             item.Type,
		"rarity":           item.Rarity,
		"equipped":         item.Equipped,
	})

	inv.mu.Lock()
	inv.items = append(inv.items, item)
	inv.mu.Unlock()
	inv.changed.Fire()
}

// Update edits an existing item.
func (inv *Inventory) Update(item model.InventoryItem) {
	inv.bus.Emit("update_inventory_item", map[string]any{
		"character_id":    item.CharacterID,
		"item_name":       item.Name,
		"new_name":        item.Name,
		"new_description": item.Description,
		"new_quantity":    item.Quantity,
		"value":           item.Value,
		"weight":          item.Weight,
		"type":            item.Type,
		"rarity":          item.Rarity,
		"equipped":        item.Equipped,
	})

	inv.mu.Lock()
	for i := range inv.items {
		if inv.items[i].ID == item.ID {
			inv.items[i] = item
			break
		}
	}
	inv.mu.Unlock()
	inv.changed.Fire()
}

// Remove deletes an item from a character's inventory. Unknown ids are
// logged no-ops.
func (inv *Inventory) Remove(characterID, itemID string) {
	inv.mu.Lock()
	var name string
	idx := -1
	for i, item := range inv.items {
		if item.ID == itemID {
			name = item.Name
			idx = i
			break
		}
	}
	if idx >= 0 {
		inv.items = append(inv.items[:idx], inv.items[idx+1:]...)
	}
	inv.mu.Unlock()

	if idx < 0 {
		inv.logf("inventory: remove of unknown item %q", itemID)
		return
	}

	inv.bus.Emit("remove_inventory_item", map[string]any{
		"character_id": characterID,
		"item_name":    name,
	})
	inv.changed.Fire()
}
