// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport owns the event channel to the campaign server.
//
// The server speaks a named-event protocol over a single persistent
// websocket: every frame is a JSON envelope {"event": name, "data": payload}.
// This package provides two layers on top of that connection:
//
//   - Channel: a labeled-message pub/sub primitive. Emit() is
//     fire-and-forget, On() registers durable handlers for a named event,
//     and reconnection is automatic and transparent — subscriptions
//     survive it without re-registration. The synthetic "connect" and
//     "disconnect" events fire on connectivity changes, and "init" is
//     re-emitted to the server after every established connection so the
//     server replays current state.
//
//   - Correlator: request/response matching built on the channel. Each
//     request carries a unique requestId; the server echoes it inside a
//     generic "response" event. Responses may arrive in any order and are
//     routed back to the originating caller. Requests that receive no
//     response resolve as a tagged failure after a fixed timeout; a late
//     response is silently ignored.
//
// All incoming events for one connection are dispatched sequentially on a
// single goroutine, so handler bodies are atomic with respect to each
// other and per-event ordering matches transport arrival order. No
// ordering holds across different event names.
package transport
