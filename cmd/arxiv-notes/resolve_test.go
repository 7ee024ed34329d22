// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"
)

// A search abandoned mid-retry keeps emitting notices after the picker
// has returned. With nobody draining the channel the notifier must
// drop them, never block or panic.
func TestStatusNotifierSurvivesAbandonedPicker(t *testing.T) {
	ch := make(chan string, 2)
	notify := statusNotifier(ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			notify("search failed, retrying")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier blocked with a full buffer")
	}
	if len(ch) != 2 {
		t.Errorf("buffered notices = %d, want 2", len(ch))
	}
}
