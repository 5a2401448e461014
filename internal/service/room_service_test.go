package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRooms_OfflineSeedsDefaults(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out := h.rooms.ListRooms(ctx, false)

	assert.True(t, out.Degraded)
	assert.Equal(t, domain.DefaultRooms(), out.Value)
	assert.Equal(t, domain.DefaultRooms(), h.store.Rooms(ctx))
}

func TestListRooms_AvailableOnlyFilters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed([]model.Room{{RoomID: 1, Available: true}, {RoomID: 2, Available: false}}, nil)

	out := h.rooms.ListRooms(ctx, true)

	require.Len(t, out.Value, 1)
	assert.Equal(t, int64(1), out.Value[0].RoomID)
}

func TestListRooms_RemoteMerged(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed([]model.Room{{RoomID: 1, Available: true}, {RoomID: 9, RoomNumber: "local"}}, nil)
	h.remote.listRooms = func(bool) ([]model.Room, error) {
		return []model.Room{{RoomID: 1, Available: false}, {RoomID: 2, Available: true}}, nil
	}

	out := h.rooms.ListRooms(ctx, false)

	assert.False(t, out.Degraded)
	require.Len(t, out.Value, 3)
	assert.False(t, out.Value[0].Available, "remote copy wins")
	assert.Equal(t, int64(9), out.Value[2].RoomID)
	assert.Len(t, h.store.Rooms(ctx), 3)
}

func TestRoom_Resolution(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed([]model.Room{{RoomID: 1, RoomType: "Stored Room", PricePerNight: 10}}, nil)

	assert.Equal(t, "Stored Room", h.rooms.Room(ctx, 1).RoomType)
	assert.Equal(t, "Royal Suite", h.rooms.Room(ctx, 4).RoomType)
	assert.Equal(t, domain.FallbackRoom(50), h.rooms.Room(ctx, 50))
}

func TestFreeRoom_Offline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(
		[]model.Room{{RoomID: 4, Available: false}},
		[]model.Booking{
			{BookingID: 1, RoomID: 4, Status: model.BookingStatusApproved},
			{BookingID: 2, RoomID: 4, Status: model.BookingStatusPending},
		},
	)

	out, err := h.rooms.FreeRoom(ctx, 4)
	require.NoError(t, err)

	assert.True(t, out.Degraded)
	assert.True(t, out.Value.Changed)
	assert.True(t, h.storedRoom(t, 4).Available)
	_, ok := h.storedBooking(t, 1)
	assert.False(t, ok)
	_, ok = h.storedBooking(t, 2)
	assert.True(t, ok)

	assert.Equal(t, []eventbus.Event{
		eventbus.RoomUpdatedEvent{RoomID: 4, Available: true},
		eventbus.BookingUpdatedEvent{BookingID: 1, Status: eventbus.StatusCancelled},
		eventbus.DataRefreshEvent{Source: eventbus.SourceRoomFreed},
	}, h.Events())
}

func TestFreeRoom_AlreadyAvailableIsNoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed([]model.Room{{RoomID: 4, Available: true}}, nil)

	out, err := h.rooms.FreeRoom(ctx, 4)
	require.NoError(t, err)

	assert.False(t, out.Value.Changed)
	assert.Empty(t, h.remote.Calls())
	assert.Empty(t, h.Events())
}

func TestFreeRoom_Unknown(t *testing.T) {
	h := newHarness(t)

	_, err := h.rooms.FreeRoom(context.Background(), 77)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFreeAllRooms(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(
		[]model.Room{{RoomID: 1, Available: false}, {RoomID: 2, Available: false}, {RoomID: 3, Available: true}},
		[]model.Booking{
			{BookingID: 1, RoomID: 1, Status: model.BookingStatusApproved},
			{BookingID: 2, RoomID: 2, Status: model.BookingStatusApproved},
			{BookingID: 3, RoomID: 3, Status: model.BookingStatusPending},
			{BookingID: 4, RoomID: 3, Status: model.BookingStatusRejected},
		},
	)
	h.remote.freeAll = func() error { return nil }

	out := h.rooms.FreeAllRooms(ctx)

	assert.False(t, out.Degraded)
	assert.Len(t, out.Value, 2)
	for _, r := range h.store.Rooms(ctx) {
		assert.True(t, r.Available)
	}
	remaining := h.store.Bookings(ctx)
	require.Len(t, remaining, 2)
	assert.Equal(t, model.BookingStatusPending, remaining[0].Status)
	assert.Equal(t, model.BookingStatusRejected, remaining[1].Status)

	assert.Equal(t, []eventbus.Event{
		eventbus.BookingUpdatedEvent{Action: eventbus.ActionFreeAllRooms},
		eventbus.DataRefreshEvent{Source: eventbus.SourceFreeAllRooms},
	}, h.Events())
}
