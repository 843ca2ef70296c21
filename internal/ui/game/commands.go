// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package game

import (
	"context"
	"strings"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand intercepts slash commands typed into the input line.
// Reports whether the input was consumed as a command; anything else
// goes to the game master as a normal message.
func (m *Model) handleCommand() bool {
	input := strings.TrimSpace(m.stores.Chat.Input())
	if !strings.HasPrefix(input, "/") {
		return false
	}

	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]

	switch name {
	case "/avatar":
		m.clearInput()
		m.runAvatarCommand(args)
	case "/search":
		m.clearInput()
		m.stores.Chat.SearchArchive(strings.Join(args, " "))
	default:
		// Unknown commands still go to the GM; players do address the
		// table in slashes sometimes.
		return false
	}
	return true
}

func (m *Model) clearInput() {
	m.stores.Chat.SetInput("")
	m.syncInput()
}

// runAvatarCommand uploads a new avatar image. One argument targets the
// current game-master persona; two name a character and its image.
func (m *Model) runAvatarCommand(args []string) {
	switch len(args) {
	case 1:
		id := m.stores.Personas.CurrentID()
		if id == "" {
			m.center.Warning("No game-master persona selected")
			return
		}
		path := args[0]
		go func() {
			if err := m.stores.Personas.UploadAvatar(context.Background(), id, path); err != nil {
				m.center.Error("Avatar upload failed: " + err.Error())
				return
			}
			m.center.Success("Persona avatar updated")
		}()
	case 2:
		id, path := args[0], args[1]
		go func() {
			if err := m.stores.Characters.UploadAvatar(context.Background(), id, path); err != nil {
				m.center.Error("Avatar upload failed: " + err.Error())
				return
			}
			m.center.Success("Character avatar updated")
		}()
	default:
		m.center.Info("Usage: /avatar <image>  or  /avatar <character-id> <image>")
	}
}
