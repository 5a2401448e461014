package eventbus

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Handler receives one event. A returned error or a panic is logged and
// does not stop delivery to the remaining handlers.
type Handler func(ctx context.Context, ev Event) error

// Forwarder relays published events to other tabs. Forward must not
// block on delivery.
type Forwarder interface {
	Forward(ctx context.Context, ev Event) error
}

// Bus is the in-process publish/subscribe hub of one client instance.
type Bus struct {
	mu        sync.RWMutex
	handlers  map[Kind][]*Subscription
	nextID    uint64
	forwarder Forwarder
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[Kind][]*Subscription),
		logger:   logger,
	}
}

// SetForwarder attaches the cross-tab bridge. nil detaches it.
func (b *Bus) SetForwarder(f Forwarder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forwarder = f
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus     *Bus
	kind    Kind
	id      uint64
	handler Handler
	once    sync.Once
}

func (s *Subscription) Kind() Kind { return s.kind }

// Close removes the handler. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.bus.remove(s) })
}

func (b *Bus) Subscribe(kind Kind, h Handler) (*Subscription, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("subscribe: %w: %q", ErrUnknownKind, kind)
	}
	if h == nil {
		return nil, fmt.Errorf("subscribe %s: nil handler", kind)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{bus: b, kind: kind, id: b.nextID, handler: h}
	b.handlers[kind] = append(b.handlers[kind], sub)
	return sub, nil
}

func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub != nil {
		sub.Close()
	}
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.handlers[sub.kind]
	for i, s := range list {
		if s.id == sub.id {
			b.handlers[sub.kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// On subscribes a handler typed to one event payload.
func On[T Event](b *Bus, fn func(ctx context.Context, ev T) error) (*Subscription, error) {
	var zero T
	return b.Subscribe(zero.Kind(), func(ctx context.Context, ev Event) error {
		typed, ok := ev.(T)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev, zero.Kind())
		}
		return fn(ctx, typed)
	})
}

// Publish delivers ev synchronously to the handlers registered at call
// time, in subscription order, then hands it to the forwarder.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if ev == nil {
		return fmt.Errorf("publish: %w: nil event", ErrInvalidEvent)
	}
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Kind(), err)
	}

	b.mu.RLock()
	subs := append([]*Subscription(nil), b.handlers[ev.Kind()]...)
	forwarder := b.forwarder
	b.mu.RUnlock()

	for _, sub := range subs {
		b.deliver(ctx, sub, ev)
	}

	if forwarder != nil {
		if err := forwarder.Forward(ctx, ev); err != nil {
			b.logger.Warn("Failed to forward event to other tabs",
				zap.String("event", string(ev.Kind())),
				zap.Error(err))
		}
	}
	return nil
}

func (b *Bus) deliver(ctx context.Context, sub *Subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				zap.String("event", string(ev.Kind())),
				zap.Uint64("subscription", sub.id),
				zap.Any("panic", r))
		}
	}()

	if err := sub.handler(ctx, ev); err != nil {
		b.logger.Error("Event handler failed",
			zap.String("event", string(ev.Kind())),
			zap.Uint64("subscription", sub.id),
			zap.Error(err))
	}
}
