package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"go.uber.org/zap"
)

type RoomService struct {
	syncer
}

func NewRoomService(store *storage.Store, api Remote, bus *eventbus.Bus, logger *zap.Logger) *RoomService {
	return &RoomService{syncer: newSyncer(store, api, bus, logger)}
}

// ListRooms merges the API rooms into the store. Offline it serves the
// stored rooms, seeding the default inventory into an empty store.
func (s *RoomService) ListRooms(ctx context.Context, availableOnly bool) Outcome[[]model.Room] {
	remoteRooms, err := s.remote.ListRooms(ctx, availableOnly)
	if err != nil {
		s.fallback("list rooms", err)
		rooms := s.storedOrSeed(ctx)
		if availableOnly {
			rooms = domain.FilterAvailable(rooms)
		}
		return degraded(rooms, err)
	}

	var merged []model.Room
	_ = s.store.Update(ctx, func(l *domain.Ledger) error {
		merged = domain.Merge(remoteRooms, l.Rooms)
		l.ReplaceRooms(merged)
		return nil
	})

	if availableOnly {
		merged = domain.FilterAvailable(merged)
	}
	return synced(merged)
}

func (s *RoomService) storedOrSeed(ctx context.Context) []model.Room {
	var rooms []model.Room
	_ = s.store.Update(ctx, func(l *domain.Ledger) error {
		if len(l.Rooms) == 0 {
			s.logger.Info("Seeding default rooms")
			l.ReplaceRooms(domain.DefaultRooms())
		}
		rooms = append([]model.Room(nil), l.Rooms...)
		return nil
	})
	return rooms
}

// Room resolves a room for the booking form: stored, then the default
// inventory, then a synthetic standard room.
func (s *RoomService) Room(ctx context.Context, roomID int64) model.Room {
	for _, r := range s.store.Rooms(ctx) {
		if r.RoomID == roomID {
			return r
		}
	}
	for _, r := range domain.DefaultRooms() {
		if r.RoomID == roomID {
			return r
		}
	}
	return domain.FallbackRoom(roomID)
}

// FreeRoom makes a room available again and drops its APPROVED bookings.
// An already available room is left alone without calling the API.
func (s *RoomService) FreeRoom(ctx context.Context, roomID int64) (Outcome[domain.FreeResult], error) {
	for _, r := range s.store.Rooms(ctx) {
		if r.RoomID == roomID && r.Available {
			return synced(domain.FreeResult{Room: r}), nil
		}
	}

	remoteRoom, remoteErr := s.remote.FreeRoom(ctx, roomID)
	if remoteErr != nil {
		s.fallback("free room", remoteErr)
	}

	var res domain.FreeResult
	err := s.store.Update(ctx, func(l *domain.Ledger) error {
		var err error
		res, err = l.FreeRoom(roomID)
		if errors.Is(err, domain.ErrRoomNotFound) && remoteErr == nil {
			room := *remoteRoom
			room.Available = true
			l.UpsertRoom(room)
			res = domain.FreeResult{Room: room, Changed: true}
			return nil
		}
		return err
	})
	if errors.Is(err, domain.ErrRoomNotFound) {
		return Outcome[domain.FreeResult]{}, fmt.Errorf("free room %d: %w", roomID, ErrNotFound)
	}
	if err != nil {
		return Outcome[domain.FreeResult]{}, fmt.Errorf("free room %d: %w", roomID, err)
	}

	if res.Changed {
		s.logger.Info("Room freed", zap.Int64("room_id", roomID), zap.Int("removed_bookings", len(res.Removed)))

		events := []eventbus.Event{eventbus.RoomUpdatedEvent{RoomID: roomID, Available: true}}
		for _, b := range res.Removed {
			events = append(events, eventbus.BookingUpdatedEvent{BookingID: b.BookingID, Status: eventbus.StatusCancelled})
		}
		events = append(events, eventbus.DataRefreshEvent{Source: eventbus.SourceRoomFreed})
		s.publish(ctx, events...)
	}

	if remoteErr != nil {
		return degraded(res, remoteErr), nil
	}
	return synced(res), nil
}

// FreeAllRooms makes every room available and removes every APPROVED
// booking. PENDING and REJECTED bookings stay.
func (s *RoomService) FreeAllRooms(ctx context.Context) Outcome[[]model.Booking] {
	remoteErr := s.remote.FreeAllRooms(ctx)
	if remoteErr != nil {
		s.fallback("free all rooms", remoteErr)
	}

	var removed []model.Booking
	_ = s.store.Update(ctx, func(l *domain.Ledger) error {
		removed = l.FreeAll()
		return nil
	})

	s.logger.Info("All rooms freed", zap.Int("removed_bookings", len(removed)))
	s.publish(ctx,
		eventbus.BookingUpdatedEvent{Action: eventbus.ActionFreeAllRooms},
		eventbus.DataRefreshEvent{Source: eventbus.SourceFreeAllRooms},
	)

	if remoteErr != nil {
		return degraded(removed, remoteErr)
	}
	return synced(removed)
}
