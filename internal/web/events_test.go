// SPDX-License-Identifier: MIT
package web

import "testing"

func TestBroadcasterPublishAfterClose(t *testing.T) {
	b := NewBroadcaster()
	b.Close()

	// Must be a silent drop, not a send on the closed channel.
	b.Publish(map[string]any{"type": "job", "ok": true})
}

func TestBroadcasterCloseIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	b.Close()
	b.Close()
}

func TestBroadcasterPublishDropsWhenFull(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	// No clients are draining; the queue fills and further publishes
	// must drop instead of blocking.
	for i := 0; i < 200; i++ {
		b.Publish(i)
	}
}
