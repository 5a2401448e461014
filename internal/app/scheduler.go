package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/service"
	"go.uber.org/zap"
)

// RoomLister and BookingLister are the service calls a sync pass makes.
type RoomLister interface {
	ListRooms(ctx context.Context, availableOnly bool) service.Outcome[[]model.Room]
}

type BookingLister interface {
	ListBookings(ctx context.Context) service.Outcome[[]model.Booking]
}

// Scheduler runs the periodic background sync with the API and the
// manual refresh.
type Scheduler struct {
	rooms    RoomLister
	bookings BookingLister
	bus      *eventbus.Bus
	interval time.Duration
	logger   *zap.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

func NewScheduler(rooms RoomLister, bookings BookingLister, bus *eventbus.Bus, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		rooms:    rooms,
		bookings: bookings,
		bus:      bus,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sync loop. A non-positive interval disables it.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Background sync disabled")
		return
	}
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.logger.Info("Starting background sync", zap.Duration("interval", s.interval))
	go s.runSyncTask(ctx)
}

// Stop ends the loop and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background sync")
		close(s.stopChan)
	})
	if s.started.Load() {
		<-s.done
	}
}

// Refresh asks every mounted view to reload.
func (s *Scheduler) Refresh(ctx context.Context) error {
	return s.bus.Publish(ctx, eventbus.DataRefreshEvent{Source: eventbus.SourceManual})
}

func (s *Scheduler) runSyncTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sync(ctx)
		case <-s.stopChan:
			s.logger.Info("Background sync stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Background sync cancelled")
			return
		}
	}
}

// sync pulls rooms and bookings into the store and announces the
// refresh only when the API answered.
func (s *Scheduler) sync(ctx context.Context) {
	rooms := s.rooms.ListRooms(ctx, false)
	bookings := s.bookings.ListBookings(ctx)

	if rooms.Degraded || bookings.Degraded {
		s.logger.Debug("Background sync skipped, API unreachable")
		return
	}

	s.logger.Debug("Background sync completed",
		zap.Int("rooms", len(rooms.Value)),
		zap.Int("bookings", len(bookings.Value)))

	if err := s.bus.Publish(ctx, eventbus.DataRefreshEvent{Source: eventbus.SourceBackgroundSync}); err != nil {
		s.logger.Error("Failed to publish background sync", zap.Error(err))
	}
}
