package model

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "PENDING"  // awaiting admin decision or payment
	BookingStatusApproved BookingStatus = "APPROVED" // room is held
	BookingStatusRejected BookingStatus = "REJECTED" // declined by admin
)

// ParseBookingStatus accepts any letter case.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return st, true
	}
	return "", false
}

type Booking struct {
	BookingID    int64         `json:"bookingId"`
	GuestName    string        `json:"guestName"`
	GuestEmail   string        `json:"guestEmail"`
	CheckInDate  Date          `json:"checkInDate"`
	CheckOutDate Date          `json:"checkOutDate"`
	RoomID       int64         `json:"roomId,omitempty"`
	TotalPrice   float64       `json:"totalPrice"`
	Status       BookingStatus `json:"status"`
	UserID       OwnerID       `json:"userId,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`

	// Snapshot of the room at booking time, not kept in sync with the rooms collection
	Room *Room `json:"room,omitempty"`
}

func (b Booking) Key() int64 { return b.BookingID }

// LinkedRoomID returns roomId, falling back to the embedded room snapshot.
func (b Booking) LinkedRoomID() int64 {
	if b.RoomID != 0 {
		return b.RoomID
	}
	if b.Room != nil {
		return b.Room.RoomID
	}
	return 0
}

// OwnedBy reports whether the booking belongs to the session owner. The
// guest email only decides for bookings that carry no user id.
func (b Booking) OwnedBy(owner OwnerID, email string) bool {
	if owner != "" && (b.UserID == owner || OwnerID(b.GuestEmail) == owner) {
		return true
	}
	return b.UserID == "" && email != "" && strings.EqualFold(b.GuestEmail, email)
}

// BookingDraft is the raw form input for a new booking.
type BookingDraft struct {
	RoomID       int64  `json:"roomId"`
	GuestName    string `json:"guestName" validate:"required"`
	GuestEmail   string `json:"guestEmail" validate:"required,email"`
	CheckInDate  string `json:"checkInDate" validate:"required,date"`
	CheckOutDate string `json:"checkOutDate" validate:"required,date"`

	// Filled from the session, not by the guest
	UserID OwnerID `json:"userId,omitempty"`
}

// StatusUpdate is the body of PUT /api/bookings/{id}/status.
type StatusUpdate struct {
	Status BookingStatus `json:"status"`
}
