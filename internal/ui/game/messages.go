// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package game provides the main campaign view for the campfire TUI.
//
// This file defines the tea.Msg types that bridge store changes into the
// Bubble Tea update loop.
package game

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/campfire-tui/internal/transport"
)

// =============================================================================
// STORE CHANGE MESSAGES
// =============================================================================

// TranscriptChangedMsg signals the chat store changed (messages, input
// draft, or thinking state).
type TranscriptChangedMsg struct{}

// RosterChangedMsg signals the character store changed.
type RosterChangedMsg struct{}

// PersonasChangedMsg signals the persona store changed.
type PersonasChangedMsg struct{}

// SceneChangedMsg signals the sidebar store changed (scene, draft,
// selection).
type SceneChangedMsg struct{}

// SettingsChangedMsg signals the settings store changed.
type SettingsChangedMsg struct{}

// NoticesChangedMsg signals the notify center changed (toasts, loading
// states, or the confirmation dialog).
type NoticesChangedMsg struct{}

// ConnChangedMsg signals the transport link went up or down.
type ConnChangedMsg struct {
	Connected bool
}

// =============================================================================
// SUBSCRIPTION WIRING
// =============================================================================

// Subscriptions subscribes to every store and forwards changes as typed
// messages through send (normally program.Send). It returns an
// unsubscribe function releasing the store subscriptions.
//
// Store callbacks run on the transport goroutine; program.Send is safe
// to call from any goroutine, which is the whole point of this bridge.
func (m *Model) Subscriptions(send func(tea.Msg)) func() {
	unsubs := []func(){
		m.stores.Chat.Subscribe(func() { send(TranscriptChangedMsg{}) }),
		m.stores.Characters.Subscribe(func() { send(RosterChangedMsg{}) }),
		m.stores.Personas.Subscribe(func() { send(PersonasChangedMsg{}) }),
		m.stores.Sidebar.Subscribe(func() { send(SceneChangedMsg{}) }),
		m.stores.Settings.Subscribe(func() { send(SettingsChangedMsg{}) }),
		m.center.Subscribe(func() { send(NoticesChangedMsg{}) }),
	}

	m.bus.On(transport.EventConnect, func(any) { send(ConnChangedMsg{Connected: true}) })
	m.bus.On(transport.EventDisconnect, func(any) { send(ConnChangedMsg{Connected: false}) })

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
