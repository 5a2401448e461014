package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPay_ApprovesOffline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(
		[]model.Room{{RoomID: 2, Available: true}},
		[]model.Booking{{BookingID: 8, RoomID: 2, Status: model.BookingStatusPending, TotalPrice: 11000}},
	)

	out, err := h.payments.Pay(ctx, 8)
	require.NoError(t, err)

	assert.True(t, out.Degraded)
	assert.Equal(t, model.BookingStatusApproved, out.Value.Status)
	assert.False(t, h.storedRoom(t, 2).Available)
	assert.Equal(t, []eventbus.Event{
		eventbus.RoomUpdatedEvent{RoomID: 2, Available: false},
		eventbus.BookingUpdatedEvent{BookingID: 8, Status: model.BookingStatusApproved},
		eventbus.DataRefreshEvent{Source: eventbus.SourcePayment},
	}, h.Events())
}

func TestPay_OfflineAddsMissingRoom(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(nil, []model.Booking{{BookingID: 8, RoomID: 77, Status: model.BookingStatusPending}})

	out, err := h.payments.Pay(ctx, 8)
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusApproved, out.Value.Status)
	room := h.storedRoom(t, 77)
	assert.False(t, room.Available)
	assert.Equal(t, "Standard Room", room.RoomType)
	assert.Equal(t, eventbus.RoomUpdatedEvent{RoomID: 77, Available: false}, h.Events()[0])
}

func TestPay_AlreadyProcessed(t *testing.T) {
	h := newHarness(t)
	h.seed(nil, []model.Booking{{BookingID: 8, Status: model.BookingStatusRejected}})

	_, err := h.payments.Pay(context.Background(), 8)

	var ape *AlreadyProcessedError
	require.ErrorAs(t, err, &ape)
	assert.Equal(t, model.BookingStatusRejected, ape.Status)
	assert.Empty(t, h.Events())
}

func TestPay_NotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.payments.Load(context.Background(), 8)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPay_RemoteSuccess(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(nil, []model.Booking{{BookingID: 8, RoomID: 2, Status: model.BookingStatusPending, TotalPrice: 100}})
	h.remote.getBooking = func(id int64) (*model.Booking, error) {
		return &model.Booking{BookingID: id, Status: model.BookingStatusPending}, nil
	}
	h.remote.pay = func(id int64) (*model.Booking, error) {
		return &model.Booking{BookingID: id, Status: model.BookingStatusApproved}, nil
	}

	out, err := h.payments.Pay(ctx, 8)
	require.NoError(t, err)

	assert.False(t, out.Degraded)
	assert.Equal(t, int64(2), out.Value.RoomID, "room link kept from the local copy")
	assert.Equal(t, 100.0, out.Value.TotalPrice)
}

func TestPay_CancelledDuringDelay(t *testing.T) {
	h := newHarness(t)
	h.seed(nil, []model.Booking{{BookingID: 8, Status: model.BookingStatusPending}})
	slow := NewPaymentService(h.bookings, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := slow.Pay(ctx, 8)

	assert.ErrorIs(t, err, context.Canceled)
	b, _ := h.storedBooking(t, 8)
	assert.Equal(t, model.BookingStatusPending, b.Status)
}
