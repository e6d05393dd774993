package server

import (
	"sync"

	"github.com/ayusman/fingercount/internal/app"
)

// Hub is a pipeline sink that keeps the latest frame and fans it out to
// stream and websocket subscribers. Slow subscribers miss frames; they
// never block the pipeline.
type Hub struct {
	mu     sync.RWMutex
	latest app.Frame
	seen   bool
	subs   map[chan app.Frame]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan app.Frame]struct{})}
}

// Observe implements app.FrameSink.
func (h *Hub) Observe(f app.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = f
	h.seen = true

	for ch := range h.subs {
		select {
		case ch <- f:
		default:
			// Replace the stale frame the subscriber has not taken yet.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- f:
			default:
			}
		}
	}
}

// Latest returns the most recent frame and whether any frame was observed.
func (h *Hub) Latest() (app.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.seen
}

// Subscribe registers for new frames. The returned function unsubscribes.
func (h *Hub) Subscribe() (<-chan app.Frame, func()) {
	ch := make(chan app.Frame, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Subscribers reports the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
