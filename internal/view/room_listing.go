package view

import (
	"context"

	"github.com/Freeeeeet/hotel_booking/internal/bridge"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/service"
	"go.uber.org/zap"
)

// RoomListing is the guest-facing room catalogue.
type RoomListing struct {
	base
	rooms *service.RoomService

	availableOnly bool
	items         []model.Room
	offline       bool
}

func NewRoomListing(rooms *service.RoomService, bus *eventbus.Bus, br *bridge.Bridge, logger *zap.Logger) *RoomListing {
	return &RoomListing{
		base:  newBase("room_listing", bus, br, logger),
		rooms: rooms,
	}
}

func (v *RoomListing) Mount(ctx context.Context) error {
	err := v.mount(ctx,
		map[eventbus.Kind]eventbus.Handler{
			eventbus.KindRoomUpdated: v.onRoomUpdated,
			eventbus.KindDataRefresh: func(context.Context, eventbus.Event) error {
				v.Refresh()
				return nil
			},
		},
		[]eventbus.Kind{eventbus.KindRoomUpdated, eventbus.KindDataRefresh},
		v.Refresh,
	)
	if err != nil {
		return err
	}

	v.fetchNow(ctx, v.load)
	return nil
}

func (v *RoomListing) load(ctx context.Context) func() {
	v.mu.RLock()
	only := v.availableOnly
	v.mu.RUnlock()

	out := v.rooms.ListRooms(ctx, only)
	return func() {
		v.items, v.offline = out.Value, out.Degraded
	}
}

// Refresh refetches the rooms in the background.
func (v *RoomListing) Refresh() {
	v.refetch(v.load)
}

// SetAvailableOnly toggles the "available rooms only" filter.
func (v *RoomListing) SetAvailableOnly(only bool) {
	v.mu.Lock()
	changed := v.availableOnly != only
	v.availableOnly = only
	v.mu.Unlock()

	if changed {
		v.Refresh()
	}
}

func (v *RoomListing) Rooms() []model.Room {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]model.Room(nil), v.items...)
}

// Offline reports whether the last fetch was served from the local store.
func (v *RoomListing) Offline() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.offline
}

func (v *RoomListing) onRoomUpdated(_ context.Context, ev eventbus.Event) error {
	upd := ev.(eventbus.RoomUpdatedEvent)

	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.items {
		if v.items[i].RoomID != upd.RoomID {
			continue
		}
		if v.availableOnly && !upd.Available {
			v.items = append(v.items[:i:i], v.items[i+1:]...)
			return nil
		}
		v.items[i].Available = upd.Available
		return nil
	}
	return nil
}
