// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the process-wide notification center.
package notify

import (
	"testing"
	"time"
)

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestCenter_ShowAndDismiss(t *testing.T) {
	c := NewCenter()

	id := c.Show("saved", KindSuccess, time.Minute)
	if got := c.Notifications(); len(got) != 1 || got[0].ID != id {
		t.Fatalf("expected one notification, got %+v", got)
	}

	c.Dismiss(id)
	if got := c.Notifications(); len(got) != 0 {
		t.Fatalf("expected empty queue after dismiss, got %+v", got)
	}

	// Dismissing again is a no-op.
	c.Dismiss(id)
}

func TestCenter_AutoDismiss(t *testing.T) {
	c := NewCenter()

	c.Show("quick", KindInfo, 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(c.Notifications()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("notification never auto-dismissed")
}

func TestCenter_LoadingNeverAutoDismisses(t *testing.T) {
	c := NewCenter()

	c.SetLoading("saveGame", true)
	time.Sleep(30 * time.Millisecond)

	got := c.Notifications()
	if len(got) != 1 || got[0].Kind != KindLoading {
		t.Fatalf("loading notification should persist, got %+v", got)
	}
}

func TestCenter_SetLoadingIdempotent(t *testing.T) {
	c := NewCenter()

	c.SetLoading("k", true)
	c.SetLoading("k", true)
	if got := c.Notifications(); len(got) != 1 {
		t.Fatalf("double set true must keep one notification, got %d", len(got))
	}
	if !c.IsLoading("k") {
		t.Error("IsLoading should be true")
	}

	c.SetLoading("k", false)
	if got := c.Notifications(); len(got) != 0 {
		t.Fatalf("set false should remove it, got %d", len(got))
	}

	// Clearing when not loading is a no-op.
	c.SetLoading("k", false)
	if c.IsLoading("k") {
		t.Error("IsLoading should be false")
	}
}

func TestCenter_SubscriberSeesMutations(t *testing.T) {
	c := NewCenter()

	var calls int
	unsub := c.Subscribe(func() { calls++ })

	id := c.Show("hello", KindInfo, time.Minute)
	c.Dismiss(id)
	if calls != 2 {
		t.Fatalf("expected 2 change callbacks, got %d", calls)
	}

	unsub()
	c.Show("after", KindInfo, time.Minute)
	if calls != 2 {
		t.Fatalf("unsubscribed callback still fired, calls=%d", calls)
	}
}

// =============================================================================
// CONFIRMATION DIALOG TESTS
// =============================================================================

func TestCenter_ConfirmPathsFireExactlyOnce(t *testing.T) {
	c := NewCenter()

	var confirmed, cancelled int
	ok := c.ShowConfirmation(DialogOptions{
		Title:     "Delete Character",
		Message:   "This action cannot be undone.",
		Kind:      DialogDanger,
		OnConfirm: func() { confirmed++ },
		OnCancel:  func() { cancelled++ },
	})
	if !ok {
		t.Fatal("first dialog should open")
	}

	c.HandleConfirm()
	// Further resolutions are no-ops once closed.
	c.HandleConfirm()
	c.HandleCancel()

	if confirmed != 1 || cancelled != 0 {
		t.Fatalf("confirmed=%d cancelled=%d, want 1/0", confirmed, cancelled)
	}
	if _, open := c.Dialog(); open {
		t.Error("dialog should be closed")
	}
}

func TestCenter_CancelFiresOnlyCancel(t *testing.T) {
	c := NewCenter()

	var confirmed, cancelled int
	c.ShowConfirmation(DialogOptions{
		Message:   "Load over current game?",
		OnConfirm: func() { confirmed++ },
		OnCancel:  func() { cancelled++ },
	})
	c.HandleCancel()

	if confirmed != 0 || cancelled != 1 {
		t.Fatalf("confirmed=%d cancelled=%d, want 0/1", confirmed, cancelled)
	}
}

func TestCenter_SecondDialogRejected(t *testing.T) {
	c := NewCenter()

	var firstConfirmed bool
	c.ShowConfirmation(DialogOptions{
		Title:     "first",
		OnConfirm: func() { firstConfirmed = true },
	})

	var secondCancelled bool
	ok := c.ShowConfirmation(DialogOptions{
		Title:    "second",
		OnCancel: func() { secondCancelled = true },
	})
	if ok {
		t.Fatal("second dialog must be rejected while one is open")
	}
	if !secondCancelled {
		t.Error("rejected request's cancel callback must fire so its caller unblocks")
	}

	// The open dialog is untouched and still resolvable.
	opts, open := c.Dialog()
	if !open || opts.Title != "first" {
		t.Fatalf("open dialog was disturbed: %+v open=%v", opts, open)
	}
	c.HandleConfirm()
	if !firstConfirmed {
		t.Error("first dialog's confirm should still work")
	}
}

func TestCenter_DialogDefaults(t *testing.T) {
	c := NewCenter()
	c.ShowConfirmation(DialogOptions{Message: "sure?"})

	opts, open := c.Dialog()
	if !open {
		t.Fatal("dialog should be open")
	}
	if opts.ConfirmText != "Confirm" || opts.CancelText != "Cancel" || opts.Kind != DialogWarning {
		t.Errorf("defaults not applied: %+v", opts)
	}
}
