package bridge

import (
	"context"
	"fmt"
	"sync"
)

// LocalHub fans envelopes out between client instances of one process.
// Every subscriber, the sender included, receives each message. A
// subscriber whose buffer is full misses the message.
type LocalHub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan []byte
	nextID uint64
	buffer int
}

func NewLocalHub() *LocalHub {
	return &LocalHub{subs: make(map[uint64]chan []byte), buffer: queueSize}
}

func (h *LocalHub) Publish(_ context.Context, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, ch := range h.subs {
		select {
		case ch <- append([]byte(nil), payload...):
		default:
			dropped++
		}
	}
	if dropped > 0 {
		return fmt.Errorf("%d lagging subscribers missed the message", dropped)
	}
	return nil
}

func (h *LocalHub) Subscribe(context.Context) (<-chan []byte, func() error, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan []byte, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	release := func() error {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
		return nil
	}
	return ch, release, nil
}
