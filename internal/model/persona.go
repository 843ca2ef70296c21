// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the campaign client.
package model

// =============================================================================
// PERSONA TYPE
// =============================================================================

// Persona is a selectable game-master identity/voice. At most one persona
// in a collection carries IsDefault.
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	IsDefault   bool   `json:"isDefault"`
	IsFavorite  bool   `json:"isFavorite"`

	// AvatarTimestamp is a cache-busting key bumped whenever the avatar
	// image changes, in unix milliseconds. Display layers append it to the
	// avatar URL so stale images are never shown.
	AvatarTimestamp int64 `json:"avatarTimestamp,omitempty"`
}

// DecodePersona converts a loose payload into a Persona.
func DecodePersona(raw map[string]any) Persona {
	return Persona{
		ID:              Str(raw, "id"),
		Name:            Str(raw, "name"),
		Description:     Str(raw, "description"),
		Avatar:          Str(raw, "avatar"),
		IsDefault:       Bool(raw, "isDefault") || Bool(raw, "is_default"),
		IsFavorite:      Bool(raw, "isFavorite") || Bool(raw, "is_favorite"),
		AvatarTimestamp: int64(Num(raw, "avatarTimestamp")),
	}
}

// DecodePersonas converts the personas array of a personas_updated push.
// The server has sent both array and keyed-object shapes across revisions;
// both are accepted. Entries without an ID are dropped.
func DecodePersonas(raw any) []Persona {
	var out []Persona

	switch v := raw.(type) {
	case []any:
		for _, entry := range v {
			if m, ok := entry.(map[string]any); ok {
				if p := DecodePersona(m); p.ID != "" {
					out = append(out, p)
				}
			}
		}
	case map[string]any:
		for id, entry := range v {
			if m, ok := entry.(map[string]any); ok {
				p := DecodePersona(m)
				if p.ID == "" {
					p.ID = id
				}
				out = append(out, p)
			}
		}
	}

	return out
}
