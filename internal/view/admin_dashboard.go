package view

import (
	"context"

	"github.com/Freeeeeet/hotel_booking/internal/bridge"
	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/service"
	"go.uber.org/zap"
)

// AdminDashboard holds every booking and room plus the summary stats.
type AdminDashboard struct {
	base
	bookings *service.BookingService
	rooms    *service.RoomService

	bookingItems []model.Booking
	roomItems    []model.Room
}

func NewAdminDashboard(
	bookings *service.BookingService,
	rooms *service.RoomService,
	bus *eventbus.Bus,
	br *bridge.Bridge,
	logger *zap.Logger,
) *AdminDashboard {
	return &AdminDashboard{
		base:     newBase("admin_dashboard", bus, br, logger),
		bookings: bookings,
		rooms:    rooms,
	}
}

func (v *AdminDashboard) Mount(ctx context.Context) error {
	refresh := func(context.Context, eventbus.Event) error {
		v.Refresh()
		return nil
	}
	err := v.mount(ctx,
		map[eventbus.Kind]eventbus.Handler{
			eventbus.KindBookingCreated: refresh,
			eventbus.KindBookingUpdated: v.onBookingUpdated,
			eventbus.KindRoomUpdated:    v.onRoomUpdated,
			eventbus.KindDataRefresh:    refresh,
		},
		[]eventbus.Kind{
			eventbus.KindBookingCreated, eventbus.KindBookingUpdated,
			eventbus.KindRoomUpdated, eventbus.KindDataRefresh,
		},
		v.Refresh,
	)
	if err != nil {
		return err
	}

	v.fetchNow(ctx, v.load)
	return nil
}

func (v *AdminDashboard) load(ctx context.Context) func() {
	bookings := v.bookings.ListBookings(ctx)
	rooms := v.rooms.ListRooms(ctx, false)
	return func() {
		v.bookingItems = bookings.Value
		v.roomItems = rooms.Value
	}
}

func (v *AdminDashboard) Refresh() {
	v.refetch(v.load)
}

func (v *AdminDashboard) Bookings() []model.Booking {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]model.Booking(nil), v.bookingItems...)
}

// Pending lists bookings waiting for a decision.
func (v *AdminDashboard) Pending() []model.Booking {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []model.Booking
	for _, b := range v.bookingItems {
		if b.Status == model.BookingStatusPending {
			out = append(out, b)
		}
	}
	return out
}

func (v *AdminDashboard) Rooms() []model.Room {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]model.Room(nil), v.roomItems...)
}

func (v *AdminDashboard) Stats() model.AdminStats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return domain.Stats(v.roomItems, v.bookingItems)
}

func (v *AdminDashboard) Approve(ctx context.Context, id int64) (model.Booking, error) {
	if v.isClosed() {
		return model.Booking{}, ErrClosed
	}
	out, err := v.bookings.Approve(ctx, id)
	return out.Value, err
}

func (v *AdminDashboard) Reject(ctx context.Context, id int64) (model.Booking, error) {
	if v.isClosed() {
		return model.Booking{}, ErrClosed
	}
	out, err := v.bookings.Reject(ctx, id)
	return out.Value, err
}

func (v *AdminDashboard) FreeRoom(ctx context.Context, roomID int64) (domain.FreeResult, error) {
	if v.isClosed() {
		return domain.FreeResult{}, ErrClosed
	}
	out, err := v.rooms.FreeRoom(ctx, roomID)
	return out.Value, err
}

// FreeAllRooms returns the APPROVED bookings that were released.
func (v *AdminDashboard) FreeAllRooms(ctx context.Context) ([]model.Booking, error) {
	if v.isClosed() {
		return nil, ErrClosed
	}
	return v.rooms.FreeAllRooms(ctx).Value, nil
}

func (v *AdminDashboard) onBookingUpdated(_ context.Context, ev eventbus.Event) error {
	upd := ev.(eventbus.BookingUpdatedEvent)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.bookingItems = patchBookings(v.bookingItems, upd)
	if upd.Action == eventbus.ActionFreeAllRooms {
		for i := range v.roomItems {
			v.roomItems[i].Available = true
		}
	}
	return nil
}

func (v *AdminDashboard) onRoomUpdated(_ context.Context, ev eventbus.Event) error {
	upd := ev.(eventbus.RoomUpdatedEvent)

	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.roomItems {
		if v.roomItems[i].RoomID == upd.RoomID {
			v.roomItems[i].Available = upd.Available
		}
	}
	return nil
}
