package view

import (
	"context"

	"github.com/Freeeeeet/hotel_booking/internal/bridge"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/service"
	"go.uber.org/zap"
)

// BookingList shows the logged-in guest's bookings, newest first.
type BookingList struct {
	base
	bookings *service.BookingService

	items []model.Booking
}

func NewBookingList(bookings *service.BookingService, bus *eventbus.Bus, br *bridge.Bridge, logger *zap.Logger) *BookingList {
	return &BookingList{
		base:     newBase("booking_list", bus, br, logger),
		bookings: bookings,
	}
}

func (v *BookingList) Mount(ctx context.Context) error {
	refresh := func(context.Context, eventbus.Event) error {
		v.Refresh()
		return nil
	}
	err := v.mount(ctx,
		map[eventbus.Kind]eventbus.Handler{
			eventbus.KindBookingCreated: refresh,
			eventbus.KindBookingUpdated: v.onBookingUpdated,
			eventbus.KindDataRefresh:    refresh,
		},
		[]eventbus.Kind{eventbus.KindBookingCreated, eventbus.KindBookingUpdated, eventbus.KindDataRefresh},
		v.Refresh,
	)
	if err != nil {
		return err
	}

	v.fetchNow(ctx, v.load)
	return nil
}

func (v *BookingList) load(ctx context.Context) func() {
	out := v.bookings.UserBookings(ctx)
	return func() { v.items = out.Value }
}

func (v *BookingList) Refresh() {
	v.refetch(v.load)
}

func (v *BookingList) Bookings() []model.Booking {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]model.Booking(nil), v.items...)
}

// Cancel removes a PENDING booking or clears a REJECTED one from the list.
func (v *BookingList) Cancel(ctx context.Context, id int64) error {
	if v.isClosed() {
		return ErrClosed
	}
	_, err := v.bookings.CancelBooking(ctx, id)
	return err
}

func (v *BookingList) onBookingUpdated(_ context.Context, ev eventbus.Event) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = patchBookings(v.items, ev.(eventbus.BookingUpdatedEvent))
	return nil
}

// patchBookings applies a booking_updated event to an in-memory list.
func patchBookings(items []model.Booking, upd eventbus.BookingUpdatedEvent) []model.Booking {
	out := items[:0:0]
	for _, b := range items {
		switch {
		case upd.Action == eventbus.ActionFreeAllRooms && b.Status == model.BookingStatusApproved:
			continue
		case b.BookingID != upd.BookingID || upd.Action != "":
		case upd.Cancelled():
			continue
		default:
			b.Status = upd.Status
		}
		out = append(out, b)
	}
	return out
}
