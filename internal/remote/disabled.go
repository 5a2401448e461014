package remote

import (
	"context"

	"github.com/Freeeeeet/hotel_booking/internal/model"
)

// Disabled stands in for the API when no base URL is configured.
type Disabled struct{}

func (Disabled) ListRooms(context.Context, bool) ([]model.Room, error) {
	return nil, ErrDisabled
}

func (Disabled) ListBookings(context.Context) ([]model.Booking, error) {
	return nil, ErrDisabled
}

func (Disabled) GetBooking(context.Context, int64) (*model.Booking, error) {
	return nil, ErrDisabled
}

func (Disabled) CreateBooking(context.Context, model.BookingDraft) (*model.Booking, error) {
	return nil, ErrDisabled
}

func (Disabled) UpdateBookingStatus(context.Context, int64, model.BookingStatus) (*model.Booking, error) {
	return nil, ErrDisabled
}

func (Disabled) CancelBooking(context.Context, int64) error { return ErrDisabled }

func (Disabled) PayBooking(context.Context, int64) (*model.Booking, error) {
	return nil, ErrDisabled
}

func (Disabled) FreeRoom(context.Context, int64) (*model.Room, error) { return nil, ErrDisabled }

func (Disabled) FreeAllRooms(context.Context) error { return ErrDisabled }
