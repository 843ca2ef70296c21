// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the process-wide notification center.
package notify

import (
	"strconv"
	"sync"
	"time"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/transport"
)

// =============================================================================
// NOTIFICATION TYPES
// =============================================================================

// Kind represents the type of a toast notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	// KindLoading notifications never auto-dismiss; they are removed only
	// by the matching SetLoading(key, false) call.
	KindLoading Kind = "loading"
)

// Default auto-dismiss durations per kind.
const (
	SuccessDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
	WarningDuration = 4 * time.Second
	InfoDuration    = 3 * time.Second
)

// Notification is a single visible toast.
type Notification struct {
	ID        string
	Message   string
	Kind      Kind
	Duration  time.Duration
	CreatedAt time.Time
}

// =============================================================================
// CONFIRMATION DIALOG
// =============================================================================

// DialogKind severities for the confirmation dialog.
type DialogKind string

const (
	DialogDanger  DialogKind = "danger"
	DialogWarning DialogKind = "warning"
	DialogInfo    DialogKind = "info"
)

// DialogOptions configures the singleton confirmation dialog.
type DialogOptions struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	Kind        DialogKind
	OnConfirm   func()
	OnCancel    func()
}

// =============================================================================
// CENTER
// =============================================================================

// Center is the process-wide notification center: a toast queue plus the
// single-slot confirmation dialog.
type Center struct {
	mu sync.Mutex

	notifications []Notification
	nextID        uint64
	timers        map[string]*time.Timer
	loading       map[string]bool

	dialogOpen bool
	dialog     DialogOptions

	subscribers []func()

	// now is swappable for tests.
	now func() time.Time
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{
		timers:  make(map[string]*time.Timer),
		loading: make(map[string]bool),
		now:     time.Now,
	}
}

// Bind routes server-originated pushes into the center so server-reported
// failures and local failures present identically.
func (c *Center) Bind(bus transport.Bus) {
	bus.On("notification", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		msg := model.Str(raw, "message")
		if msg == "" {
			return
		}
		switch model.Str(raw, "type") {
		case "success":
			c.Success(msg)
		case "error":
			c.Error(msg)
		case "warning":
			c.Warning(msg)
		default:
			c.Info(msg)
		}
	})

	bus.On("rate_limit_reached", func(data any) {
		raw, _ := data.(map[string]any)
		c.RateLimited(time.Duration(model.Num(raw, "wait_time")) * time.Second)
	})
}

// Subscribe registers a change callback invoked after every visible-state
// mutation. Returns an unsubscribe function.
func (c *Center) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
	idx := len(c.subscribers) - 1
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.subscribers[idx] = nil
	}
}

// notifyLocked snapshots subscribers for invocation after the lock drops.
func (c *Center) notifyLocked() []func() {
	fns := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		if fn != nil {
			fns = append(fns, fn)
		}
	}
	return fns
}

func fire(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// =============================================================================
// TOASTS
// =============================================================================

// Show appends a notification and schedules auto-removal. Loading
// notifications are exempt from the timer and removed only explicitly.
// Returns the notification id.
func (c *Center) Show(message string, kind Kind, duration time.Duration) string {
	c.mu.Lock()
	c.nextID++
	id := "n_" + strconv.FormatUint(c.nextID, 10)
	c.notifications = append(c.notifications, Notification{
		ID:        id,
		Message:   message,
		Kind:      kind,
		Duration:  duration,
		CreatedAt: c.now(),
	})
	if kind != KindLoading && duration > 0 {
		c.timers[id] = time.AfterFunc(duration, func() { c.Dismiss(id) })
	}
	fns := c.notifyLocked()
	c.mu.Unlock()

	fire(fns)
	return id
}

// Success shows a success toast with the default duration.
func (c *Center) Success(message string) string {
	return c.Show(message, KindSuccess, SuccessDuration)
}

// Error shows an error toast. Errors linger longer to be read.
func (c *Center) Error(message string) string {
	return c.Show(message, KindError, ErrorDuration)
}

// Warning shows a warning toast.
func (c *Center) Warning(message string) string {
	return c.Show(message, KindWarning, WarningDuration)
}

// Info shows an informational toast.
func (c *Center) Info(message string) string {
	return c.Show(message, KindInfo, InfoDuration)
}

// RateLimited shows a warning sized to the server-reported wait window.
func (c *Center) RateLimited(wait time.Duration) string {
	secs := int(wait.Seconds())
	if secs < 1 {
		secs = 1
	}
	return c.Show(
		"Rate limit reached. Please wait "+strconv.Itoa(secs)+" seconds before trying again.",
		KindWarning, wait+time.Second)
}

// Dismiss removes a notification by id. Dismissing an unknown id is a
// no-op.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	removed := false
	for i, n := range c.notifications {
		if n.ID == id {
			c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
			removed = true
			break
		}
	}
	var fns []func()
	if removed {
		fns = c.notifyLocked()
	}
	c.mu.Unlock()

	fire(fns)
}

// Clear removes all notifications and cancels their timers.
func (c *Center) Clear() {
	c.mu.Lock()
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.notifications = nil
	fns := c.notifyLocked()
	c.mu.Unlock()

	fire(fns)
}

// Notifications returns a snapshot of visible toasts, oldest first.
func (c *Center) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// =============================================================================
// LOADING STATES
// =============================================================================

// loadingID derives the dedicated notification id for a loading key.
func loadingID(key string) string {
	return "loading-" + key
}

// SetLoading toggles the dedicated loading notification for a key.
// Idempotent in both directions: setting true twice keeps a single
// notification, and clearing an inactive key is a no-op.
func (c *Center) SetLoading(key string, active bool) {
	c.mu.Lock()
	already := c.loading[key]
	if active == already {
		c.mu.Unlock()
		return
	}

	if active {
		c.loading[key] = true
		c.notifications = append(c.notifications, Notification{
			ID:        loadingID(key),
			Message:   "Loading " + key + "...",
			Kind:      KindLoading,
			CreatedAt: c.now(),
		})
	} else {
		delete(c.loading, key)
		id := loadingID(key)
		for i, n := range c.notifications {
			if n.ID == id {
				c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
				break
			}
		}
	}
	fns := c.notifyLocked()
	c.mu.Unlock()

	fire(fns)
}

// IsLoading reports whether a loading key is active.
func (c *Center) IsLoading(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[key]
}

// =============================================================================
// CONFIRMATION DIALOG
// =============================================================================

// ShowConfirmation opens the singleton confirmation dialog. If a dialog
// is already open the request is REJECTED: the open dialog is untouched,
// the new request's OnCancel fires (so its caller unblocks), and false is
// returned. Silent replacement would strand the first caller.
func (c *Center) ShowConfirmation(opts DialogOptions) bool {
	c.mu.Lock()
	if c.dialogOpen {
		onCancel := opts.OnCancel
		c.mu.Unlock()
		if onCancel != nil {
			onCancel()
		}
		c.Warning("Another confirmation is already open")
		return false
	}

	if opts.ConfirmText == "" {
		opts.ConfirmText = "Confirm"
	}
	if opts.CancelText == "" {
		opts.CancelText = "Cancel"
	}
	if opts.Kind == "" {
		opts.Kind = DialogWarning
	}
	c.dialogOpen = true
	c.dialog = opts
	fns := c.notifyLocked()
	c.mu.Unlock()

	fire(fns)
	return true
}

// HandleConfirm resolves the open dialog on its confirm path. The confirm
// callback fires exactly once; the cancel callback does not fire.
func (c *Center) HandleConfirm() {
	c.resolveDialog(true)
}

// HandleCancel resolves the open dialog on its cancel path. Closing via
// escape is equivalent to cancel.
func (c *Center) HandleCancel() {
	c.resolveDialog(false)
}

func (c *Center) resolveDialog(confirmed bool) {
	c.mu.Lock()
	if !c.dialogOpen {
		c.mu.Unlock()
		return
	}
	opts := c.dialog
	c.dialogOpen = false
	c.dialog = DialogOptions{}
	fns := c.notifyLocked()
	c.mu.Unlock()

	if confirmed {
		if opts.OnConfirm != nil {
			opts.OnConfirm()
		}
	} else if opts.OnCancel != nil {
		opts.OnCancel()
	}
	fire(fns)
}

// Dialog returns the open dialog options, if any.
func (c *Center) Dialog() (DialogOptions, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog, c.dialogOpen
}
