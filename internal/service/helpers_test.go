package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/session"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errOffline = errors.New("dial tcp: connection refused")

// fakeRemote fails every call unless the matching func is set.
type fakeRemote struct {
	mu    sync.Mutex
	calls []string

	listRooms    func(bool) ([]model.Room, error)
	listBookings func() ([]model.Booking, error)
	getBooking   func(int64) (*model.Booking, error)
	create       func(model.BookingDraft) (*model.Booking, error)
	updateStatus func(int64, model.BookingStatus) (*model.Booking, error)
	cancel       func(int64) error
	pay          func(int64) (*model.Booking, error)
	freeRoom     func(int64) (*model.Room, error)
	freeAll      func() error
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) ListRooms(_ context.Context, availableOnly bool) ([]model.Room, error) {
	f.record("ListRooms")
	if f.listRooms == nil {
		return nil, errOffline
	}
	return f.listRooms(availableOnly)
}

func (f *fakeRemote) ListBookings(context.Context) ([]model.Booking, error) {
	f.record("ListBookings")
	if f.listBookings == nil {
		return nil, errOffline
	}
	return f.listBookings()
}

func (f *fakeRemote) GetBooking(_ context.Context, id int64) (*model.Booking, error) {
	f.record("GetBooking")
	if f.getBooking == nil {
		return nil, errOffline
	}
	return f.getBooking(id)
}

func (f *fakeRemote) CreateBooking(_ context.Context, d model.BookingDraft) (*model.Booking, error) {
	f.record("CreateBooking")
	if f.create == nil {
		return nil, errOffline
	}
	return f.create(d)
}

func (f *fakeRemote) UpdateBookingStatus(_ context.Context, id int64, st model.BookingStatus) (*model.Booking, error) {
	f.record("UpdateBookingStatus")
	if f.updateStatus == nil {
		return nil, errOffline
	}
	return f.updateStatus(id, st)
}

func (f *fakeRemote) CancelBooking(_ context.Context, id int64) error {
	f.record("CancelBooking")
	if f.cancel == nil {
		return errOffline
	}
	return f.cancel(id)
}

func (f *fakeRemote) PayBooking(_ context.Context, id int64) (*model.Booking, error) {
	f.record("PayBooking")
	if f.pay == nil {
		return nil, errOffline
	}
	return f.pay(id)
}

func (f *fakeRemote) FreeRoom(_ context.Context, id int64) (*model.Room, error) {
	f.record("FreeRoom")
	if f.freeRoom == nil {
		return nil, errOffline
	}
	return f.freeRoom(id)
}

func (f *fakeRemote) FreeAllRooms(context.Context) error {
	f.record("FreeAllRooms")
	if f.freeAll == nil {
		return errOffline
	}
	return f.freeAll()
}

type harness struct {
	store    *storage.Store
	bus      *eventbus.Bus
	sessions *session.Provider
	remote   *fakeRemote
	rooms    *RoomService
	bookings *BookingService
	payments *PaymentService
	users    *UserService
	settings *SettingsService

	mu     sync.Mutex
	events []eventbus.Event
}

var fixedNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()

	h := &harness{
		store:  storage.NewStore(storage.NewMemoryKV(), logger),
		bus:    eventbus.New(logger),
		remote: &fakeRemote{},
	}
	h.sessions = session.NewProvider(h.store)
	h.rooms = NewRoomService(h.store, h.remote, h.bus, logger)
	h.bookings = NewBookingService(h.store, h.remote, h.bus, h.rooms, h.sessions, logger)
	h.bookings.now = func() time.Time { return fixedNow }
	h.payments = NewPaymentService(h.bookings, 0, logger)
	h.users = NewUserService(h.store, h.sessions, AdminCredentials{Username: "admin", Password: "admin123"}, logger)
	h.users.now = func() time.Time { return fixedNow }
	h.settings = NewSettingsService(h.store, h.bus, logger)

	for _, kind := range []eventbus.Kind{
		eventbus.KindBookingCreated, eventbus.KindBookingUpdated, eventbus.KindRoomUpdated, eventbus.KindDataRefresh,
	} {
		_, err := h.bus.Subscribe(kind, func(_ context.Context, ev eventbus.Event) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.events = append(h.events, ev)
			return nil
		})
		require.NoError(t, err)
	}
	return h
}

func (h *harness) Events() []eventbus.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]eventbus.Event(nil), h.events...)
}

func (h *harness) resetEvents() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = nil
}

func (h *harness) seed(rooms []model.Room, bookings []model.Booking) {
	ctx := context.Background()
	h.store.PutRooms(ctx, rooms)
	h.store.PutBookings(ctx, bookings)
}

func (h *harness) storedBooking(t *testing.T, id int64) (model.Booking, bool) {
	t.Helper()
	for _, b := range h.store.Bookings(context.Background()) {
		if b.BookingID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

func (h *harness) storedRoom(t *testing.T, id int64) model.Room {
	t.Helper()
	for _, r := range h.store.Rooms(context.Background()) {
		if r.RoomID == id {
			return r
		}
	}
	t.Fatalf("room %d not stored", id)
	return model.Room{}
}
