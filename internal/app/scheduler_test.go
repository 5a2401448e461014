package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLister struct {
	degraded bool
}

func (f fakeLister) ListRooms(context.Context, bool) service.Outcome[[]model.Room] {
	return service.Outcome[[]model.Room]{Value: domain.DefaultRooms(), Degraded: f.degraded}
}

func (f fakeLister) ListBookings(context.Context) service.Outcome[[]model.Booking] {
	out := service.Outcome[[]model.Booking]{Degraded: f.degraded}
	if f.degraded {
		out.Cause = errors.New("offline")
	}
	return out
}

type sources struct {
	mu  sync.Mutex
	got []string
}

func (s *sources) record(_ context.Context, ev eventbus.DataRefreshEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, ev.Source)
	return nil
}

func (s *sources) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.got...)
}

func newBusWithRecorder(t *testing.T) (*eventbus.Bus, *sources) {
	t.Helper()
	bus := eventbus.New(zap.NewNop())
	rec := &sources{}
	_, err := eventbus.On(bus, rec.record)
	require.NoError(t, err)
	return bus, rec
}

func TestScheduler_PublishesBackgroundSync(t *testing.T) {
	bus, rec := newBusWithRecorder(t)
	s := NewScheduler(fakeLister{}, fakeLister{}, bus, 5*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return len(rec.list()) >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	for _, src := range rec.list() {
		assert.Equal(t, eventbus.SourceBackgroundSync, src)
	}
}

func TestScheduler_SkipsWhenOffline(t *testing.T) {
	bus, rec := newBusWithRecorder(t)
	s := NewScheduler(fakeLister{degraded: true}, fakeLister{degraded: true}, bus, time.Millisecond, zap.NewNop())

	s.sync(context.Background())

	assert.Empty(t, rec.list())
}

func TestScheduler_ManualRefresh(t *testing.T) {
	bus, rec := newBusWithRecorder(t)
	s := NewScheduler(fakeLister{}, fakeLister{}, bus, 0, zap.NewNop())
	s.Start(context.Background())

	require.NoError(t, s.Refresh(context.Background()))
	s.Stop()

	assert.Equal(t, []string{eventbus.SourceManual}, rec.list())
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	bus, _ := newBusWithRecorder(t)
	s := NewScheduler(fakeLister{}, fakeLister{}, bus, time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
