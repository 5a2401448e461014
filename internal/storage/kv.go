package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// KV is a string key-value backend holding serialized collections.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key owned by this store.
	Clear(ctx context.Context) error
}

// Keys of the persisted collections and session entries.
const (
	KeyRooms         = "hotelRooms"
	KeyBookings      = "hotelBookings"
	KeyUsers         = "registeredUsers"
	KeyUserLoggedIn  = "userLoggedIn"
	KeyUserData      = "userData"
	KeyAdminLoggedIn = "adminLoggedIn"
	KeyAdminUser     = "adminUser"
	KeyHotelInfo     = "hotelInfo"
)
