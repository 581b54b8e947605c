package progress

import "sync"

// Hub fans the latest Snapshot out to any number of subscribed websocket
// clients. It holds only the most recent snapshot: a newly-subscribed
// client receives the current state immediately rather than waiting for
// the next update.
type Hub struct {
	mu        sync.Mutex
	current   Snapshot
	listeners map[chan Snapshot]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[chan Snapshot]struct{})}
}

// Publish updates the current snapshot and notifies every subscriber.
// Subscribers that are not ready to receive (their channel buffer is full)
// miss this update; the next Publish will still reach them since each
// snapshot is idempotent.
func (h *Hub) Publish(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = s
	for ch := range h.listeners {
		select {
		case ch <- s:
		default:
		}
	}
}

// Subscribe registers a new listener and returns it along with the
// snapshot current at subscription time. Call the returned cancel func to
// unregister and release the channel.
func (h *Hub) Subscribe() (ch <-chan Snapshot, initial Snapshot, cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := make(chan Snapshot, 4)
	h.listeners[c] = struct{}{}
	initial = h.current

	cancel = func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.listeners[c]; ok {
			delete(h.listeners, c)
			close(c)
		}
	}
	return c, initial, cancel
}
