package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"go.uber.org/zap"
)

// Store is the typed view over a KV backend. It never fails: missing or
// corrupt entries read as empty and failed writes are logged and dropped.
// Every write replaces the whole serialized collection.
type Store struct {
	kv     KV
	logger *zap.Logger

	// serializes read-modify-write cycles inside this process
	mu sync.Mutex
}

func NewStore(kv KV, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// GetJSON decodes the entry into v. It reports false for missing and
// corrupt entries.
func (s *Store) GetJSON(ctx context.Context, key string, v any) bool {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("Failed to read store entry", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("Corrupt store entry treated as empty", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) PutJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode store entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.logger.Error("Failed to write store entry", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) Remove(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.logger.Error("Failed to delete store entry", zap.String("key", key), zap.Error(err))
		}
	}
}

// Flag reads a "true"/"false" entry.
func (s *Store) Flag(ctx context.Context, key string) bool {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return false
	}
	return raw == "true"
}

func (s *Store) SetFlag(ctx context.Context, key string, on bool) {
	value := "false"
	if on {
		value = "true"
	}
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.logger.Error("Failed to write flag", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) Rooms(ctx context.Context) []model.Room {
	var rooms []model.Room
	if !s.GetJSON(ctx, KeyRooms, &rooms) {
		return []model.Room{}
	}
	return rooms
}

func (s *Store) PutRooms(ctx context.Context, rooms []model.Room) {
	if rooms == nil {
		rooms = []model.Room{}
	}
	s.PutJSON(ctx, KeyRooms, rooms)
}

func (s *Store) Bookings(ctx context.Context) []model.Booking {
	var bookings []model.Booking
	if !s.GetJSON(ctx, KeyBookings, &bookings) {
		return []model.Booking{}
	}
	return bookings
}

func (s *Store) PutBookings(ctx context.Context, bookings []model.Booking) {
	if bookings == nil {
		bookings = []model.Booking{}
	}
	s.PutJSON(ctx, KeyBookings, bookings)
}

func (s *Store) Users(ctx context.Context) []model.RegisteredUser {
	var users []model.RegisteredUser
	if !s.GetJSON(ctx, KeyUsers, &users) {
		return []model.RegisteredUser{}
	}
	return users
}

func (s *Store) PutUsers(ctx context.Context, users []model.RegisteredUser) {
	if users == nil {
		users = []model.RegisteredUser{}
	}
	s.PutJSON(ctx, KeyUsers, users)
}

// Update runs one read-modify-write cycle over rooms and bookings.
// Collections the ledger reports as changed are written back only when
// fn succeeds. The returned error is fn's.
func (s *Store) Update(ctx context.Context, fn func(l *domain.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := domain.NewLedger(s.Rooms(ctx), s.Bookings(ctx))
	if err := fn(ledger); err != nil {
		return err
	}
	if ledger.RoomsChanged() {
		s.PutRooms(ctx, ledger.Rooms)
	}
	if ledger.BookingsChanged() {
		s.PutBookings(ctx, ledger.Bookings)
	}
	return nil
}

// UpdateUsers runs one read-modify-write cycle over registered users.
// The returned slice is written back when fn succeeds.
func (s *Store) UpdateUsers(ctx context.Context, fn func(users []model.RegisteredUser) ([]model.RegisteredUser, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := fn(s.Users(ctx))
	if err != nil {
		return err
	}
	s.PutUsers(ctx, users)
	return nil
}

// Clear wipes every entry (system reset).
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear store", zap.Error(err))
	}
}
