package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/remote"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// AlreadyProcessedError is returned when paying a booking that is no
// longer PENDING.
type AlreadyProcessedError struct {
	Status model.BookingStatus
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("booking has already been processed (status: %s)", e.Status)
}

// Remote is the REST API as seen by the services.
type Remote interface {
	ListRooms(ctx context.Context, availableOnly bool) ([]model.Room, error)
	ListBookings(ctx context.Context) ([]model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	CreateBooking(ctx context.Context, draft model.BookingDraft) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)
	CancelBooking(ctx context.Context, id int64) error
	PayBooking(ctx context.Context, id int64) (*model.Booking, error)
	FreeRoom(ctx context.Context, roomID int64) (*model.Room, error)
	FreeAllRooms(ctx context.Context) error
}

// Outcome is the result of an operation that may have run offline.
// Degraded is set when the remote call failed and the local store
// answered instead. Callers that present both cases alike ignore it.
type Outcome[T any] struct {
	Value    T
	Degraded bool
	Cause    error
}

func synced[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

func degraded[T any](v T, cause error) Outcome[T] {
	return Outcome[T]{Value: v, Degraded: true, Cause: cause}
}

// syncer holds what every service needs to call the API, fall back to
// the store and announce changes.
type syncer struct {
	store  *storage.Store
	remote Remote
	bus    *eventbus.Bus
	logger *zap.Logger
	now    func() time.Time
}

func newSyncer(store *storage.Store, api Remote, bus *eventbus.Bus, logger *zap.Logger) syncer {
	if api == nil {
		api = remote.Disabled{}
	}
	return syncer{store: store, remote: api, bus: bus, logger: logger, now: time.Now}
}

func (s *syncer) fallback(op string, err error) {
	if errors.Is(err, remote.ErrDisabled) {
		s.logger.Debug("Remote API disabled, using local store", zap.String("op", op))
		return
	}
	s.logger.Warn("Remote API call failed, using local store", zap.String("op", op), zap.Error(err))
}

func (s *syncer) publish(ctx context.Context, events ...eventbus.Event) {
	for _, ev := range events {
		if err := s.bus.Publish(ctx, ev); err != nil {
			s.logger.Error("Failed to publish event", zap.String("event", string(ev.Kind())), zap.Error(err))
		}
	}
}

// mergeBooking fills the fields the API left empty from the local copy.
func mergeBooking(remote, local model.Booking) model.Booking {
	if remote.RoomID == 0 && remote.Room == nil {
		remote.RoomID = local.RoomID
	}
	if remote.Room == nil {
		remote.Room = local.Room
	}
	if remote.UserID == "" {
		remote.UserID = local.UserID
	}
	if remote.CreatedAt.IsZero() {
		remote.CreatedAt = local.CreatedAt
	}
	if remote.TotalPrice == 0 {
		remote.TotalPrice = local.TotalPrice
	}
	if remote.GuestName == "" {
		remote.GuestName = local.GuestName
	}
	if remote.GuestEmail == "" {
		remote.GuestEmail = local.GuestEmail
	}
	if remote.CheckInDate.IsZero() {
		remote.CheckInDate = local.CheckInDate
	}
	if remote.CheckOutDate.IsZero() {
		remote.CheckOutDate = local.CheckOutDate
	}
	if remote.Status == "" {
		remote.Status = local.Status
	}
	return remote
}
