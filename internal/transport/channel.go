// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport owns the event channel to the campaign server.
package transport

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// =============================================================================
// EVENT NAMES
// =============================================================================

// Synthetic events dispatched locally on connectivity changes. They are
// ordinary named events: any component may subscribe to them.
const (
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
)

// EventInit is emitted to the server once after every established
// connection; the server answers by replaying current state.
const EventInit = "init"

// =============================================================================
// BUS INTERFACE
// =============================================================================

// Handler is invoked with the decoded payload of a named event. Handlers
// run sequentially on the dispatch goroutine and must not block.
type Handler func(data any)

// Bus is the labeled-message pub/sub surface consumed by stores and the
// correlator. Channel is the production implementation; tests substitute
// an in-memory fake.
type Bus interface {
	// Emit sends a named event to the server, fire-and-forget.
	Emit(event string, payload any)
	// On registers a durable handler for a named event. Multiple handlers
	// per event are allowed; all are invoked on every matching event.
	On(event string, fn Handler)
	// Connected reports current connectivity.
	Connected() bool
}

// =============================================================================
// WIRE ENVELOPE
// =============================================================================

// envelope is the wire format: every frame names its event and carries an
// arbitrary JSON payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// =============================================================================
// CHANNEL
// =============================================================================

// Timing constants for the websocket connection.
const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	reconnectMinDelay = time.Second
	reconnectMaxDelay = 30 * time.Second
	sendQueueSize     = 256
)

// Channel maintains the single physical websocket connection. It owns
// automatic reconnection: callers treat the channel as always-usable and
// observe connectivity only through Connected() and the synthetic
// connect/disconnect events.
type Channel struct {
	url    string
	dialer *websocket.Dialer

	// Outbound queue, consumed by a single writer goroutine.
	send chan []byte

	// Subscriptions. Append-only under mu; dispatch copies the slice.
	mu       sync.Mutex
	handlers map[string][]Handler

	connected atomic.Bool

	// reconnectMax caps the redial backoff; settable before Start.
	reconnectMax time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// logf records transport-level conditions; defaults to a no-op so the
	// alternate-screen TUI stays clean.
	logf func(format string, args ...any)
}

// NewChannel creates a channel for the given websocket URL. The channel
// does not connect until Start is called.
func NewChannel(url string) *Channel {
	ctx, cancel := context.WithCancel(context.Background())
	return &Channel{
		url:      url,
		dialer:   websocket.DefaultDialer,
		send:     make(chan []byte, sendQueueSize),
		handlers: make(map[string][]Handler),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		logf:     func(string, ...any) {},

		reconnectMax: reconnectMaxDelay,
	}
}

// SetReconnectMax overrides the redial backoff cap. Call before Start.
func (c *Channel) SetReconnectMax(d time.Duration) {
	if d >= reconnectMinDelay {
		c.reconnectMax = d
	}
}

// SetLogf installs a logging hook for transport-level conditions.
func (c *Channel) SetLogf(logf func(format string, args ...any)) {
	if logf != nil {
		c.logf = logf
	}
}

// Start launches the connection manager. It returns immediately; dial
// failures are retried with capped backoff until Close is called.
func (c *Channel) Start() {
	go c.run()
}

// Close tears the connection down and stops reconnection.
func (c *Channel) Close() {
	c.cancel()
	<-c.done
}

// Connected reports current connectivity.
func (c *Channel) Connected() bool {
	return c.connected.Load()
}

// On registers a durable handler for a named event. Subscriptions survive
// reconnection without re-registration.
func (c *Channel) On(event string, fn Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], fn)
}

// Emit sends a named event to the server, fire-and-forget. Events emitted
// while disconnected are queued and flushed after reconnect; if the queue
// is full the event is dropped and logged.
func (c *Channel) Emit(event string, payload any) {
	env := envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			c.logf("transport: marshal %s: %v", event, err)
			return
		}
		env.Data = data
	}

	frame, err := json.Marshal(env)
	if err != nil {
		c.logf("transport: marshal envelope %s: %v", event, err)
		return
	}

	select {
	case c.send <- frame:
	default:
		c.logf("transport: send queue full, dropping %s", event)
	}
}

// =============================================================================
// CONNECTION MANAGEMENT
// =============================================================================

// run is the connection manager. It dials, pumps the connection until it
// drops, and redials with backoff. All event dispatch happens on this
// goroutine, which is what gives handlers their ordering and atomicity
// guarantees.
func (c *Channel) run() {
	defer close(c.done)

	delay := reconnectMinDelay
	for {
		conn, _, err := c.dialer.DialContext(c.ctx, c.url, nil)
		if err != nil {
			c.logf("transport: dial %s: %v", c.url, err)
			select {
			case <-c.ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, c.reconnectMax)
			continue
		}
		delay = reconnectMinDelay

		c.connected.Store(true)
		c.dispatch(EventConnect, nil)
		c.Emit(EventInit, nil)

		c.pump(conn)

		c.connected.Store(false)
		c.dispatch(EventDisconnect, nil)

		select {
		case <-c.ctx.Done():
			return
		default:
		}
	}
}

// pump runs the writer goroutine and reads frames inline until the
// connection fails or the channel is closed.
func (c *Channel) pump(conn *websocket.Conn) {
	writerDone := make(chan struct{})
	go c.writePump(conn, writerDone)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			c.logf("transport: read: %v", err)
			break
		}

		var env envelope
		if err := json.Unmarshal(frame, &env); err != nil || env.Event == "" {
			c.logf("transport: malformed frame: %v", err)
			continue
		}

		var data any
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &data); err != nil {
				c.logf("transport: malformed payload for %s: %v", env.Event, err)
				continue
			}
		}

		c.dispatch(env.Event, data)
	}

	conn.Close()
	<-writerDone
}

// writePump drains the send queue onto the connection and keeps the
// connection alive with periodic pings. A single writer per connection is
// required: gorilla/websocket allows at most one concurrent writer.
func (c *Channel) writePump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
			return
		case frame := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logf("transport: write: %v", err)
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}

// dispatch invokes every handler registered for event, in registration
// order. A panicking handler is contained so one bad subscriber cannot
// take down dispatch for the rest.
func (c *Channel) dispatch(event string, data any) {
	c.mu.Lock()
	fns := make([]Handler, len(c.handlers[event]))
	copy(fns, c.handlers[event])
	c.mu.Unlock()

	for _, fn := range fns {
		c.invoke(event, fn, data)
	}
}

func (c *Channel) invoke(event string, fn Handler, data any) {
	defer func() {
		if r := recover(); r != nil {
			c.logf("transport: handler panic on %s: %v", event, r)
		}
	}()
	fn(data)
}
