package session

import (
	"sync"

	"github.com/rpupo63/portfolio-showcase-backend/auth"
)

// Hub fans session events out to subscribers. Subscribers run synchronously on the
// publishing goroutine and must not block.
type Hub struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]func(auth.Event)
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[int]func(auth.Event))}
}

// Subscribe registers fn and returns a function that removes it again.
func (h *Hub) Subscribe(fn func(auth.Event)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Publish(event auth.Event) {
	h.mu.RLock()
	subscribers := make([]func(auth.Event), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		subscribers = append(subscribers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
