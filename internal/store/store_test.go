// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"io"
	"path/filepath"
	"sync"

	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/transport"
)

// fakeBus is an in-memory transport.Bus. Emitted events are recorded
// for assertion; Deliver plays a server push into the registered
// handlers synchronously, on the caller's goroutine.
type fakeBus struct {
	mu       sync.Mutex
	handlers map[string][]transport.Handler
	emitted  []emittedEvent
}

type emittedEvent struct {
	event   string
	payload any
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[string][]transport.Handler)}
}

func (b *fakeBus) Emit(event string, payload any) {
	b.mu.Lock()
	b.emitted = append(b.emitted, emittedEvent{event: event, payload: payload})
	b.mu.Unlock()
}

func (b *fakeBus) On(event string, fn transport.Handler) {
	b.mu.Lock()
	b.handlers[event] = append(b.handlers[event], fn)
	b.mu.Unlock()
}

func (b *fakeBus) Connected() bool { return true }

// Deliver simulates a server push.
func (b *fakeBus) Deliver(event string, data any) {
	b.mu.Lock()
	fns := append([]transport.Handler(nil), b.handlers[event]...)
	b.mu.Unlock()
	for _, fn := range fns {
		fn(data)
	}
}

// Emitted returns all recorded events with the given name.
func (b *fakeBus) Emitted(event string) []emittedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []emittedEvent
	for _, e := range b.emitted {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

// EmitCount returns how many events of any name were recorded.
func (b *fakeBus) EmitCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.emitted)
}

// payloadMap extracts a recorded payload as a map for field assertions.
func (e emittedEvent) payloadMap() map[string]any {
	m, _ := e.payload.(map[string]any)
	return m
}

// fakeUploader records avatar uploads keyed by owner id.
type fakeUploader struct {
	mu       sync.Mutex
	personas []string
	chars    []string
	err      error
}

func (u *fakeUploader) UploadPersonaAvatar(_ context.Context, personaID, filename string, _ io.Reader) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	u.personas = append(u.personas, personaID+":"+filepath.Base(filename))
	return "/avatars/" + personaID + ".png", nil
}

func (u *fakeUploader) UploadCharacterAvatar(_ context.Context, characterID, filename string, _ io.Reader) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	u.chars = append(u.chars, characterID+":"+filepath.Base(filename))
	return "/avatars/" + characterID + ".png", nil
}

// testDeps bundles the collaborators most store tests need.
type testDeps struct {
	bus    *fakeBus
	req    *transport.Correlator
	center *notify.Center
}

func newTestDeps() testDeps {
	bus := newFakeBus()
	return testDeps{
		bus:    bus,
		req:    transport.NewCorrelator(bus),
		center: notify.NewCenter(),
	}
}
