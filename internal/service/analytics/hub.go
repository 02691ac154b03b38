package analytics

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Hub broadcasts events to live subscribers (dashboard websocket / SSE).
// Slow subscribers miss events instead of stalling the dispatcher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

// NewHub 创建事件广播中心。
func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan Event)}
}

// Subscribe registers a listener. The returned cancel func must be called to
// release it; the channel is closed afterwards.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 32
	}
	id := uuid.NewString()
	ch := make(chan Event, buffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of active listeners.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Deliver implements Sink.
func (h *Hub) Deliver(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}
