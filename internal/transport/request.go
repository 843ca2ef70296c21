// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport owns the event channel to the campaign server.
package transport

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// RESULT TYPE
// =============================================================================

// Result is the outcome of a correlated request. Requests never fail with
// a Go error: callers branch on Success so timeout and server-side
// failure take the same path.
type Result struct {
	Success bool
	Data    map[string]any
	Err     string
}

// Str returns a string field from the result payload, or "".
func (r Result) Str(keys ...string) string {
	for _, key := range keys {
		if v, ok := r.Data[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Bool returns a boolean field from the result payload, or false.
func (r Result) Bool(key string) bool {
	v, _ := r.Data[key].(bool)
	return v
}

// failure builds a failed result.
func failure(msg string) Result {
	return Result{Success: false, Err: msg}
}

// =============================================================================
// CORRELATOR
// =============================================================================

// DefaultRequestTimeout bounds how long a request may stay pending.
const DefaultRequestTimeout = 10 * time.Second

// responseEvent is the generic event the server uses to answer correlated
// requests. Its payload embeds the original requestId.
const responseEvent = "response"

// requestIDKey is the payload field carrying the correlation identifier.
const requestIDKey = "requestId"

// Correlator matches generic "response" events back to the callers that
// emitted the corresponding requests. Many requests may be outstanding at
// once; responses may arrive in any order.
type Correlator struct {
	bus     Bus
	timeout time.Duration

	counter atomic.Uint64

	// pending maps requestId -> resolver. Each entry resolves exactly
	// once: either by a matching response or by timeout, never both.
	mu      sync.Mutex
	pending map[string]chan Result
}

// NewCorrelator creates a correlator bound to the bus and installs its
// shared subscription to the generic response event.
func NewCorrelator(bus Bus) *Correlator {
	c := &Correlator{
		bus:     bus,
		timeout: DefaultRequestTimeout,
		pending: make(map[string]chan Result),
	}
	bus.On(responseEvent, c.handleResponse)
	return c
}

// SetTimeout overrides the per-request timeout. Zero or negative values
// are ignored.
func (c *Correlator) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Request emits a named event carrying a unique requestId and blocks the
// calling goroutine until the matching response arrives or the timeout
// elapses. The payload map is copied before the identifier is attached;
// a nil payload is allowed.
func (c *Correlator) Request(event string, payload map[string]any) Result {
	id := c.nextRequestID()

	out := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out[requestIDKey] = id

	resolver := make(chan Result, 1)
	c.mu.Lock()
	c.pending[id] = resolver
	c.mu.Unlock()

	c.bus.Emit(event, out)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case res := <-resolver:
		return res
	case <-timer.C:
		// Remove the entry so a late response is silently ignored. The
		// resolver may have fired between the timer and the lock; prefer
		// the delivered result in that case.
		c.mu.Lock()
		_, wasPending := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()

		if !wasPending {
			// A response claimed the entry before the timeout fired; its
			// delivery is guaranteed, so wait for it.
			return <-resolver
		}
		return failure("request timed out")
	}
}

// Pending returns the number of outstanding requests. Used by tests and
// the connection status display.
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// handleResponse routes an incoming response payload to its pending
// request. Payloads without a known requestId are ignored.
func (c *Correlator) handleResponse(data any) {
	raw, ok := data.(map[string]any)
	if !ok {
		return
	}
	id, ok := raw[requestIDKey].(string)
	if !ok {
		return
	}

	c.mu.Lock()
	resolver, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if !ok {
		return
	}

	res := Result{Success: true}
	switch payload := raw["payload"].(type) {
	case map[string]any:
		res.Data = payload
		// A payload carrying success:false is a server-reported failure.
		if v, present := payload["success"]; present {
			if b, _ := v.(bool); !b {
				res.Success = false
				if msg, _ := payload["error"].(string); msg != "" {
					res.Err = msg
				} else {
					res.Err = "request failed"
				}
			}
		}
	case nil:
	default:
		res.Data = map[string]any{"value": payload}
	}

	resolver <- res
}

// nextRequestID generates an identifier unique within the process:
// a monotonic counter combined with a wall-clock component.
func (c *Correlator) nextRequestID() string {
	n := c.counter.Add(1)
	return "req_" + strconv.FormatUint(n, 10) + "_" +
		strconv.FormatInt(time.Now().UnixMilli(), 10)
}
