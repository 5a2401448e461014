package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingForwarder struct {
	mu     sync.Mutex
	events []Event
}

func (f *recordingForwarder) Forward(_ context.Context, ev Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := New(zap.NewNop())
	var calls []string

	for _, name := range []string{"first", "second", "third"} {
		name := name
		_, err := bus.Subscribe(KindRoomUpdated, func(context.Context, Event) error {
			calls = append(calls, name)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, bus.Publish(context.Background(), RoomUpdatedEvent{RoomID: 1}))

	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestBus_FailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := New(zap.NewNop())
	var delivered []string

	_, _ = bus.Subscribe(KindBookingUpdated, func(context.Context, Event) error {
		panic("boom")
	})
	_, _ = bus.Subscribe(KindBookingUpdated, func(context.Context, Event) error {
		delivered = append(delivered, "after panic")
		return errors.New("handler error")
	})
	_, _ = bus.Subscribe(KindBookingUpdated, func(context.Context, Event) error {
		delivered = append(delivered, "after error")
		return nil
	})

	err := bus.Publish(context.Background(), BookingUpdatedEvent{BookingID: 1, Status: model.BookingStatusApproved})

	require.NoError(t, err)
	assert.Equal(t, []string{"after panic", "after error"}, delivered)
}

func TestBus_CloseReleasesHandler(t *testing.T) {
	bus := New(zap.NewNop())
	count := 0
	sub, err := bus.Subscribe(KindDataRefresh, func(context.Context, Event) error {
		count++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), DataRefreshEvent{Source: SourceManual}))
	sub.Close()
	sub.Close()
	bus.Unsubscribe(sub)
	require.NoError(t, bus.Publish(context.Background(), DataRefreshEvent{Source: SourceManual}))

	assert.Equal(t, 1, count)
}

func TestBus_HandlerSubscribedDuringPublishWaitsForNextEvent(t *testing.T) {
	bus := New(zap.NewNop())
	late := 0
	_, _ = bus.Subscribe(KindDataRefresh, func(context.Context, Event) error {
		_, _ = bus.Subscribe(KindDataRefresh, func(context.Context, Event) error {
			late++
			return nil
		})
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), DataRefreshEvent{Source: SourceManual}))

	assert.Zero(t, late)
}

func TestBus_ValidatesAtPublishAndSubscribe(t *testing.T) {
	bus := New(zap.NewNop())

	_, err := bus.Subscribe(Kind("bookingCreated"), func(context.Context, Event) error { return nil })
	assert.ErrorIs(t, err, ErrUnknownKind)

	assert.ErrorIs(t, bus.Publish(context.Background(), RoomUpdatedEvent{}), ErrInvalidEvent)
	assert.ErrorIs(t, bus.Publish(context.Background(), BookingUpdatedEvent{BookingID: 1}), ErrInvalidEvent)
	assert.ErrorIs(t, bus.Publish(context.Background(), DataRefreshEvent{}), ErrInvalidEvent)
	assert.NoError(t, bus.Publish(context.Background(), BookingUpdatedEvent{Action: ActionFreeAllRooms}))
}

func TestBus_ForwardsAfterLocalDelivery(t *testing.T) {
	bus := New(zap.NewNop())
	fwd := &recordingForwarder{}
	bus.SetForwarder(fwd)

	var forwardedBeforeHandler int
	_, _ = bus.Subscribe(KindBookingCreated, func(context.Context, Event) error {
		fwd.mu.Lock()
		forwardedBeforeHandler = len(fwd.events)
		fwd.mu.Unlock()
		return nil
	})

	ev := BookingCreatedEvent{Booking: model.Booking{BookingID: 10}}
	require.NoError(t, bus.Publish(context.Background(), ev))

	assert.Zero(t, forwardedBeforeHandler)
	assert.Equal(t, []Event{ev}, fwd.events)
}

func TestOn_TypedHandler(t *testing.T) {
	bus := New(zap.NewNop())
	var got RoomUpdatedEvent
	_, err := On(bus, func(_ context.Context, ev RoomUpdatedEvent) error {
		got = ev
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), RoomUpdatedEvent{RoomID: 4, Available: true}))

	assert.Equal(t, RoomUpdatedEvent{RoomID: 4, Available: true}, got)
}

func TestDecode(t *testing.T) {
	ev, err := Decode(KindBookingUpdated, []byte(`{"bookingId":7,"status":"CANCELLED"}`))
	require.NoError(t, err)
	upd, ok := ev.(BookingUpdatedEvent)
	require.True(t, ok)
	assert.True(t, upd.Cancelled())

	ev, err = Decode(KindBookingCreated, []byte(`{"bookingId":3,"guestName":"Ann","checkInDate":"2025-06-01","userId":17}`))
	require.NoError(t, err)
	created := ev.(BookingCreatedEvent)
	assert.Equal(t, "Ann", created.GuestName)
	assert.Equal(t, model.OwnerID("17"), created.UserID)

	_, err = Decode("nope", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Decode(KindRoomUpdated, []byte(`{"available":true}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}
