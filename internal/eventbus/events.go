package eventbus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Freeeeeet/hotel_booking/internal/model"
)

// Kind is the fixed event vocabulary.
type Kind string

const (
	KindBookingCreated Kind = "booking_created"
	KindBookingUpdated Kind = "booking_updated"
	KindRoomUpdated    Kind = "room_updated"
	KindDataRefresh    Kind = "data_refresh"
)

var kinds = map[Kind]struct{}{
	KindBookingCreated: {},
	KindBookingUpdated: {},
	KindRoomUpdated:    {},
	KindDataRefresh:    {},
}

func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

var (
	ErrUnknownKind  = errors.New("unknown event kind")
	ErrInvalidEvent = errors.New("invalid event payload")
)

// Event is implemented by the four payload types below and nothing else.
type Event interface {
	Kind() Kind
	Validate() error
}

// Payload markers carried by BookingUpdatedEvent.
const (
	// StatusCancelled marks a booking removed by its owner.
	StatusCancelled model.BookingStatus = "CANCELLED"
	// ActionFreeAllRooms marks the bulk free of every room.
	ActionFreeAllRooms = "free_all_rooms"
)

// Refresh sources attached to DataRefreshEvent.
const (
	SourceBookingCreated = "booking_created"
	SourceAdminDashboard = "admin_dashboard"
	SourceUserCancel     = "user_cancel"
	SourcePayment        = "payment_success"
	SourceRoomFreed      = "room_freed"
	SourceFreeAllRooms   = "free_all_rooms"
	SourceSystemReset    = "system_reset"
	SourceBackgroundSync = "background_sync"
	SourceManual         = "manual"
)

// BookingCreatedEvent carries the full new booking.
type BookingCreatedEvent struct {
	model.Booking
}

func (BookingCreatedEvent) Kind() Kind { return KindBookingCreated }

func (e BookingCreatedEvent) Validate() error {
	if e.BookingID == 0 {
		return fmt.Errorf("%w: booking_created without bookingId", ErrInvalidEvent)
	}
	return nil
}

// BookingUpdatedEvent is either a single booking change or a bulk action.
type BookingUpdatedEvent struct {
	BookingID int64               `json:"bookingId,omitempty"`
	Status    model.BookingStatus `json:"status,omitempty"`
	Action    string              `json:"action,omitempty"`
}

func (BookingUpdatedEvent) Kind() Kind { return KindBookingUpdated }

func (e BookingUpdatedEvent) Validate() error {
	if e.Action == ActionFreeAllRooms {
		return nil
	}
	if e.Action != "" {
		return fmt.Errorf("%w: unknown booking action %q", ErrInvalidEvent, e.Action)
	}
	if e.BookingID == 0 || e.Status == "" {
		return fmt.Errorf("%w: booking_updated needs bookingId and status", ErrInvalidEvent)
	}
	return nil
}

// Cancelled reports whether the booking was removed.
func (e BookingUpdatedEvent) Cancelled() bool { return e.Status == StatusCancelled }

type RoomUpdatedEvent struct {
	RoomID    int64 `json:"roomId"`
	Available bool  `json:"available"`
}

func (RoomUpdatedEvent) Kind() Kind { return KindRoomUpdated }

func (e RoomUpdatedEvent) Validate() error {
	if e.RoomID == 0 {
		return fmt.Errorf("%w: room_updated without roomId", ErrInvalidEvent)
	}
	return nil
}

type DataRefreshEvent struct {
	Source string `json:"source"`
}

func (DataRefreshEvent) Kind() Kind { return KindDataRefresh }

func (e DataRefreshEvent) Validate() error {
	if e.Source == "" {
		return fmt.Errorf("%w: data_refresh without source", ErrInvalidEvent)
	}
	return nil
}

// Decode rebuilds a typed event from its kind and JSON payload.
func Decode(kind Kind, data []byte) (Event, error) {
	var ev Event
	switch kind {
	case KindBookingCreated:
		var e BookingCreatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		ev = e
	case KindBookingUpdated:
		var e BookingUpdatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		ev = e
	case KindRoomUpdated:
		var e RoomUpdatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		ev = e
	case KindDataRefresh:
		var e DataRefreshEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		ev = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}
