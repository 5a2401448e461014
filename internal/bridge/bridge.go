package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultChannel is the shared channel name between tabs.
const DefaultChannel = "hotel-data-update"

const queueSize = 256

// Envelope is the wire payload exchanged between tabs.
type Envelope struct {
	Event  eventbus.Kind   `json:"event"`
	Data   json.RawMessage `json:"data"`
	Origin string          `json:"origin,omitempty"`
}

// Notification is what a cross-tab listener receives: a copy of the
// envelope that must be treated as a signal to refetch, not as state.
type Notification struct {
	Kind   eventbus.Kind
	Data   json.RawMessage
	Origin string
}

// Event decodes the payload into its typed form.
func (n Notification) Event() (eventbus.Event, error) {
	return eventbus.Decode(n.Kind, n.Data)
}

// Transport moves raw envelopes between tabs.
type Transport interface {
	Publish(ctx context.Context, payload []byte) error
	// Subscribe returns a stream of raw envelopes and a function that
	// releases the subscription.
	Subscribe(ctx context.Context) (<-chan []byte, func() error, error)
}

// Listener is a registered cross-tab callback.
type Listener struct {
	bridge *Bridge
	id     uint64
	fn     func(Notification)
	once   sync.Once
}

func (l *Listener) Close() {
	l.once.Do(func() { l.bridge.removeListener(l.id) })
}

// Bridge connects the local event bus of one tab to the other tabs.
type Bridge struct {
	origin    string
	transport Transport
	logger    *zap.Logger

	queue chan Envelope

	mu        sync.RWMutex
	listeners []*Listener
	nextID    uint64
}

func New(transport Transport, logger *zap.Logger) *Bridge {
	return &Bridge{
		origin:    uuid.NewString(),
		transport: transport,
		logger:    logger,
		queue:     make(chan Envelope, queueSize),
	}
}

// Origin identifies this tab in outgoing envelopes.
func (b *Bridge) Origin() string { return b.origin }

// Broadcast sends one envelope to the other tabs right away.
func (b *Bridge) Broadcast(ctx context.Context, kind eventbus.Kind, payload any) error {
	env, err := b.envelope(kind, payload)
	if err != nil {
		return err
	}
	return b.send(ctx, env)
}

// Forward queues ev for delivery by Run. It implements eventbus.Forwarder.
func (b *Bridge) Forward(_ context.Context, ev eventbus.Event) error {
	env, err := b.envelope(ev.Kind(), ev)
	if err != nil {
		return err
	}
	select {
	case b.queue <- env:
		return nil
	default:
		return fmt.Errorf("bridge queue full, dropping %s", ev.Kind())
	}
}

func (b *Bridge) envelope(kind eventbus.Kind, payload any) (Envelope, error) {
	if !kind.Valid() {
		return Envelope{}, fmt.Errorf("broadcast: %w: %q", eventbus.ErrUnknownKind, kind)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return Envelope{Event: kind, Data: data, Origin: b.origin}, nil
}

func (b *Bridge) send(ctx context.Context, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := b.transport.Publish(ctx, raw); err != nil {
		return fmt.Errorf("publish %s: %w", env.Event, err)
	}
	return nil
}

// Listen registers fn for envelopes from other tabs.
func (b *Bridge) Listen(fn func(Notification)) *Listener {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	l := &Listener{bridge: b, id: b.nextID, fn: fn}
	b.listeners = append(b.listeners, l)
	return l
}

func (b *Bridge) removeListener(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, l := range b.listeners {
		if l.id == id {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Run pumps queued events out and dispatches incoming ones until ctx
// is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	incoming, release, err := b.transport.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", DefaultChannel, err)
	}
	defer func() {
		if err := release(); err != nil {
			b.logger.Warn("Failed to release bridge subscription", zap.Error(err))
		}
	}()

	b.logger.Info("Cross-tab bridge started", zap.String("origin", b.origin))

	for {
		select {
		case env := <-b.queue:
			if err := b.send(ctx, env); err != nil {
				b.logger.Warn("Failed to broadcast event", zap.Error(err))
			}
		case raw, ok := <-incoming:
			if !ok {
				b.logger.Info("Cross-tab transport closed")
				return nil
			}
			b.dispatch(raw)
		case <-ctx.Done():
			b.logger.Info("Cross-tab bridge stopped")
			return nil
		}
	}
}

func (b *Bridge) dispatch(raw []byte) {
	if !gjson.ValidBytes(raw) {
		b.logger.Warn("Ignoring malformed cross-tab message", zap.Int("size", len(raw)))
		return
	}
	peek := gjson.GetManyBytes(raw, "origin", "event")
	if peek[0].String() == b.origin {
		return
	}
	kind := eventbus.Kind(peek[1].String())
	if !kind.Valid() {
		b.logger.Warn("Ignoring unknown cross-tab event", zap.String("event", string(kind)))
		return
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		b.logger.Warn("Failed to decode cross-tab message", zap.Error(err))
		return
	}

	b.mu.RLock()
	listeners := append([]*Listener(nil), b.listeners...)
	b.mu.RUnlock()

	for _, l := range listeners {
		// each listener gets its own copy of the payload
		n := Notification{
			Kind:   env.Event,
			Data:   append(json.RawMessage(nil), env.Data...),
			Origin: env.Origin,
		}
		b.notify(l, n)
	}
}

func (b *Bridge) notify(l *Listener, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Cross-tab listener panicked",
				zap.String("event", string(n.Kind)),
				zap.Any("panic", r))
		}
	}()
	l.fn(n)
}
