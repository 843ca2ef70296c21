// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport owns the event channel to the campaign server.
package transport

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// FAKE BUS
// =============================================================================

// fakeBus is an in-memory Bus for exercising the correlator and stores
// without a websocket. Emitted events are recorded; Deliver simulates a
// server push by invoking registered handlers inline.
type fakeBus struct {
	mu       sync.Mutex
	emitted  []emittedEvent
	handlers map[string][]Handler
	online   bool
}

type emittedEvent struct {
	Event   string
	Payload any
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[string][]Handler), online: true}
}

func (b *fakeBus) Emit(event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.emitted = append(b.emitted, emittedEvent{Event: event, Payload: payload})
}

func (b *fakeBus) On(event string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], fn)
}

func (b *fakeBus) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online
}

// Deliver simulates an incoming server event.
func (b *fakeBus) Deliver(event string, data any) {
	b.mu.Lock()
	fns := make([]Handler, len(b.handlers[event]))
	copy(fns, b.handlers[event])
	b.mu.Unlock()
	for _, fn := range fns {
		fn(data)
	}
}

// Emitted returns a snapshot of emitted events.
func (b *fakeBus) Emitted() []emittedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]emittedEvent, len(b.emitted))
	copy(out, b.emitted)
	return out
}

// LastEmitted returns the most recent emitted event with the given name,
// or nil.
func (b *fakeBus) LastEmitted(event string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.emitted) - 1; i >= 0; i-- {
		if b.emitted[i].Event == event {
			m, _ := b.emitted[i].Payload.(map[string]any)
			return m
		}
	}
	return nil
}

// =============================================================================
// CORRELATOR TESTS
// =============================================================================

func TestCorrelator_RequestIDsAreUnique(t *testing.T) {
	bus := newFakeBus()
	c := NewCorrelator(bus)
	c.SetTimeout(50 * time.Millisecond)

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Request("get_characters", nil)
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, ev := range bus.Emitted() {
		payload := ev.Payload.(map[string]any)
		id := payload[requestIDKey].(string)
		if seen[id] {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = true
	}
	require.Len(t, seen, n)
}

func TestCorrelator_RoutesOutOfOrderResponses(t *testing.T) {
	bus := newFakeBus()
	c := NewCorrelator(bus)

	type outcome struct {
		tag string
		res Result
	}
	results := make(chan outcome, 2)

	started := make(chan struct{}, 2)
	go func() {
		started <- struct{}{}
		results <- outcome{"q1", c.Request("get_personas", nil)}
	}()
	<-started

	// Wait for the first request to be emitted before starting the second
	// so the emission order is deterministic.
	id1 := waitForRequestID(t, bus, 1)

	go func() {
		started <- struct{}{}
		results <- outcome{"q2", c.Request("get_inventory", nil)}
	}()
	<-started
	id2 := waitForRequestID(t, bus, 2)

	// Respond in reverse order.
	bus.Deliver("response", map[string]any{
		"requestId": id2,
		"payload":   map[string]any{"who": "q2"},
	})
	bus.Deliver("response", map[string]any{
		"requestId": id1,
		"payload":   map[string]any{"who": "q1"},
	})

	for i := 0; i < 2; i++ {
		out := <-results
		require.True(t, out.res.Success)
		require.Equal(t, out.tag, out.res.Str("who"),
			"response must resolve its own caller")
	}
	require.Zero(t, c.Pending())
}

func TestCorrelator_TimeoutThenLateResponseIgnored(t *testing.T) {
	bus := newFakeBus()
	c := NewCorrelator(bus)
	c.SetTimeout(20 * time.Millisecond)

	res := c.Request("get_save_file_path", nil)
	require.False(t, res.Success)
	require.Equal(t, "request timed out", res.Err)
	require.Zero(t, c.Pending())

	// A response arriving after timeout has no observable effect.
	id := bus.LastEmitted("get_save_file_path")[requestIDKey].(string)
	bus.Deliver("response", map[string]any{
		"requestId": id,
		"payload":   map[string]any{"filepath": "late.json"},
	})
	require.Zero(t, c.Pending())
}

func TestCorrelator_ServerReportedFailure(t *testing.T) {
	bus := newFakeBus()
	c := NewCorrelator(bus)

	done := make(chan Result, 1)
	go func() { done <- c.Request("load_game", map[string]any{"filepath": "x"}) }()

	id := waitForRequestID(t, bus, 1)
	bus.Deliver("response", map[string]any{
		"requestId": id,
		"payload":   map[string]any{"success": false, "error": "file not found"},
	})

	res := <-done
	require.False(t, res.Success)
	require.Equal(t, "file not found", res.Err)
}

func TestCorrelator_PayloadIsCopiedNotMutated(t *testing.T) {
	bus := newFakeBus()
	c := NewCorrelator(bus)
	c.SetTimeout(10 * time.Millisecond)

	payload := map[string]any{"character_id": "char1"}
	c.Request("get_character_inventory", payload)

	if _, ok := payload[requestIDKey]; ok {
		t.Error("caller payload must not be mutated with the request id")
	}
	sent := bus.LastEmitted("get_character_inventory")
	require.Equal(t, "char1", sent["character_id"])
	require.NotEmpty(t, sent[requestIDKey])
}

func TestCorrelator_IgnoresMalformedResponses(t *testing.T) {
	bus := newFakeBus()
	c := NewCorrelator(bus)

	// None of these should panic or disturb pending state.
	bus.Deliver("response", nil)
	bus.Deliver("response", "garbage")
	bus.Deliver("response", map[string]any{"payload": map[string]any{}})
	bus.Deliver("response", map[string]any{"requestId": "unknown"})

	require.Zero(t, c.Pending())
}

// waitForRequestID waits until n requests have been emitted and returns
// the last one's id.
func waitForRequestID(t *testing.T, bus *fakeBus, n int) string {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		emitted := bus.Emitted()
		if len(emitted) >= n {
			payload := emitted[n-1].Payload.(map[string]any)
			return payload[requestIDKey].(string)
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("request was never emitted")
	return ""
}
