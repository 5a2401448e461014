package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Freeeeeet/hotel_booking/internal/bridge"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("view is closed")

// base carries the subscriptions and the refetch bookkeeping shared by
// all views. Every field below mu is guarded by it.
type base struct {
	name   string
	bus    *eventbus.Bus
	bridge *bridge.Bridge
	logger *zap.Logger

	mu        sync.RWMutex
	mounted   bool
	closed    bool
	gen       uint64
	ctx       context.Context
	cancel    context.CancelFunc
	subs      []*eventbus.Subscription
	listeners []*bridge.Listener
	inflight  sync.WaitGroup
}

func newBase(name string, bus *eventbus.Bus, br *bridge.Bridge, logger *zap.Logger) base {
	return base{name: name, bus: bus, bridge: br, logger: logger.With(zap.String("view", name))}
}

// mount subscribes handlers for the given kinds and, when a bridge is
// attached, refetches on cross-tab notifications of the watched kinds.
func (v *base) mount(ctx context.Context, handlers map[eventbus.Kind]eventbus.Handler, crossTab []eventbus.Kind, refetch func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.mounted {
		return fmt.Errorf("%s already mounted", v.name)
	}

	v.ctx, v.cancel = context.WithCancel(context.WithoutCancel(ctx))

	for kind, h := range handlers {
		sub, err := v.bus.Subscribe(kind, h)
		if err != nil {
			v.release()
			return fmt.Errorf("mount %s: %w", v.name, err)
		}
		v.subs = append(v.subs, sub)
	}

	if v.bridge != nil && len(crossTab) > 0 {
		watched := make(map[eventbus.Kind]bool, len(crossTab))
		for _, k := range crossTab {
			watched[k] = true
		}
		v.listeners = append(v.listeners, v.bridge.Listen(func(n bridge.Notification) {
			if watched[n.Kind] {
				v.logger.Debug("Cross-tab change, refetching", zap.String("event", string(n.Kind)))
				refetch()
			}
		}))
	}

	v.mounted = true
	return nil
}

// refetch runs fetch in the background. The closure fetch returns is
// applied under the lock only if the view is still open and no newer
// refetch was started meanwhile.
func (v *base) refetch(fetch func(ctx context.Context) func()) {
	v.mu.Lock()
	if v.closed || !v.mounted {
		v.mu.Unlock()
		return
	}
	v.gen++
	gen := v.gen
	ctx := v.ctx
	v.inflight.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.inflight.Done()

		apply := fetch(ctx)

		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed || gen != v.gen {
			v.logger.Debug("Discarding stale refetch result", zap.Uint64("generation", gen))
			return
		}
		apply()
	}()
}

// fetchNow is the synchronous form of refetch used for the first load.
func (v *base) fetchNow(ctx context.Context, fetch func(ctx context.Context) func()) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	apply := fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed && gen == v.gen {
		apply()
	}
}

func (v *base) isClosed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

// Close releases every subscription and drops late refetch results.
func (v *base) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.release()
	v.mu.Unlock()

	v.inflight.Wait()
}

func (v *base) release() {
	for _, s := range v.subs {
		s.Close()
	}
	for _, l := range v.listeners {
		l.Close()
	}
	v.subs, v.listeners = nil, nil
	if v.cancel != nil {
		v.cancel()
	}
}

// Settle waits for refetches started so far.
func (v *base) Settle() {
	v.inflight.Wait()
}
