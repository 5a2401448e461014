package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Freeeeeet/hotel_booking/internal/model"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// Ledger is a working copy of the rooms and bookings collections.
// Mutating methods record which collection changed so callers persist
// only what was touched.
type Ledger struct {
	Rooms    []model.Room
	Bookings []model.Booking

	roomsChanged    bool
	bookingsChanged bool
}

func NewLedger(rooms []model.Room, bookings []model.Booking) *Ledger {
	return &Ledger{Rooms: rooms, Bookings: bookings}
}

func (l *Ledger) RoomsChanged() bool    { return l.roomsChanged }
func (l *Ledger) BookingsChanged() bool { return l.bookingsChanged }

// ReplaceRooms swaps the whole rooms collection.
func (l *Ledger) ReplaceRooms(rooms []model.Room) {
	l.Rooms = rooms
	l.roomsChanged = true
}

// ReplaceBookings swaps the whole bookings collection.
func (l *Ledger) ReplaceBookings(bookings []model.Booking) {
	l.Bookings = bookings
	l.bookingsChanged = true
}

func (l *Ledger) Room(id int64) (model.Room, bool) {
	if i := l.roomIndex(id); i >= 0 {
		return l.Rooms[i], true
	}
	return model.Room{}, false
}

func (l *Ledger) Booking(id int64) (model.Booking, bool) {
	if i := l.bookingIndex(id); i >= 0 {
		return l.Bookings[i], true
	}
	return model.Booking{}, false
}

// UpsertBooking replaces the booking with the same id or appends it.
func (l *Ledger) UpsertBooking(b model.Booking) {
	l.bookingsChanged = true
	if i := l.bookingIndex(b.BookingID); i >= 0 {
		l.Bookings[i] = b
		return
	}
	l.Bookings = append(l.Bookings, b)
}

func (l *Ledger) UpsertRoom(r model.Room) {
	l.roomsChanged = true
	if i := l.roomIndex(r.RoomID); i >= 0 {
		l.Rooms[i] = r
		return
	}
	l.Rooms = append(l.Rooms, r)
}

// SetRoomAvailability flips the flag. Unknown rooms are ignored and
// report false.
func (l *Ledger) SetRoomAvailability(roomID int64, available bool) bool {
	i := l.roomIndex(roomID)
	if i < 0 {
		return false
	}
	if l.Rooms[i].Available != available {
		l.Rooms[i].Available = available
		l.roomsChanged = true
	}
	return true
}

// CanTransition reports whether a booking may move between the states.
// Only PENDING bookings move, to APPROVED or REJECTED.
func CanTransition(from, to model.BookingStatus) bool {
	return from == model.BookingStatusPending &&
		(to == model.BookingStatusApproved || to == model.BookingStatusRejected)
}

// Transition is the result of a booking status change.
type Transition struct {
	Booking model.Booking
	// RoomID is set when the room availability flipped as a consequence.
	RoomID        int64
	RoomAvailable bool
}

// SetStatus moves a PENDING booking to APPROVED or REJECTED. Approval
// marks the booked room unavailable. Rejection leaves the room alone.
func (l *Ledger) SetStatus(id int64, status model.BookingStatus) (Transition, error) {
	i := l.bookingIndex(id)
	if i < 0 {
		return Transition{}, ErrBookingNotFound
	}
	current := l.Bookings[i].Status
	if !CanTransition(current, status) {
		return Transition{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	l.Bookings[i].Status = status
	l.bookingsChanged = true

	return Transition{Booking: l.Bookings[i], RoomID: l.applyRoomEffect(l.Bookings[i])}, nil
}

// ApplyRemote stores a booking returned by the server and applies the
// room side effect of its status.
func (l *Ledger) ApplyRemote(b model.Booking) Transition {
	l.UpsertBooking(b)
	return Transition{Booking: b, RoomID: l.applyRoomEffect(b)}
}

// applyRoomEffect marks the room of an APPROVED booking unavailable.
// A room missing from the collection is added from the booking's
// snapshot, the default inventory or the fallback room.
func (l *Ledger) applyRoomEffect(b model.Booking) int64 {
	if b.Status != model.BookingStatusApproved {
		return 0
	}
	roomID := b.LinkedRoomID()
	if roomID == 0 {
		return 0
	}
	if !l.SetRoomAvailability(roomID, false) {
		room := knownRoom(roomID, b.Room)
		room.Available = false
		l.UpsertRoom(room)
	}
	return roomID
}

func knownRoom(roomID int64, snapshot *model.Room) model.Room {
	if snapshot != nil && snapshot.RoomID == roomID && snapshot.RoomNumber != "" {
		return *snapshot
	}
	for _, r := range DefaultRooms() {
		if r.RoomID == roomID {
			return r
		}
	}
	return FallbackRoom(roomID)
}

// RemoveBooking drops a booking. Removal never touches room availability.
func (l *Ledger) RemoveBooking(id int64) (model.Booking, bool) {
	i := l.bookingIndex(id)
	if i < 0 {
		return model.Booking{}, false
	}
	removed := l.Bookings[i]
	l.Bookings = append(l.Bookings[:i:i], l.Bookings[i+1:]...)
	l.bookingsChanged = true
	return removed, true
}

// FreeResult describes a free-room operation.
type FreeResult struct {
	Room    model.Room
	Removed []model.Booking
	// Changed is false when the room was already available.
	Changed bool
}

// FreeRoom marks the room available and removes its APPROVED bookings.
// An already available room is left untouched.
func (l *Ledger) FreeRoom(roomID int64) (FreeResult, error) {
	i := l.roomIndex(roomID)
	if i < 0 {
		return FreeResult{}, ErrRoomNotFound
	}
	if l.Rooms[i].Available {
		return FreeResult{Room: l.Rooms[i]}, nil
	}

	l.Rooms[i].Available = true
	l.roomsChanged = true

	removed := l.removeApproved(func(b model.Booking) bool { return b.LinkedRoomID() == roomID })
	return FreeResult{Room: l.Rooms[i], Removed: removed, Changed: true}, nil
}

// FreeAll marks every room available and removes every APPROVED booking.
// PENDING and REJECTED bookings stay.
func (l *Ledger) FreeAll() []model.Booking {
	for i := range l.Rooms {
		if !l.Rooms[i].Available {
			l.Rooms[i].Available = true
			l.roomsChanged = true
		}
	}
	return l.removeApproved(func(model.Booking) bool { return true })
}

func (l *Ledger) removeApproved(match func(model.Booking) bool) []model.Booking {
	var removed []model.Booking
	kept := l.Bookings[:0:0]
	for _, b := range l.Bookings {
		if b.Status == model.BookingStatusApproved && match(b) {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	if len(removed) > 0 {
		l.Bookings = kept
		l.bookingsChanged = true
	}
	return removed
}

// NextBookingID returns max(bookingId)+1.
func (l *Ledger) NextBookingID() int64 {
	var highest int64
	for _, b := range l.Bookings {
		if b.BookingID > highest {
			highest = b.BookingID
		}
	}
	return highest + 1
}

func (l *Ledger) roomIndex(id int64) int {
	for i := range l.Rooms {
		if l.Rooms[i].RoomID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) bookingIndex(id int64) int {
	for i := range l.Bookings {
		if l.Bookings[i].BookingID == id {
			return i
		}
	}
	return -1
}

// SortNewestFirst orders bookings by createdAt descending.
func SortNewestFirst(bookings []model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

// FilterAvailable keeps rooms with the available flag set.
func FilterAvailable(rooms []model.Room) []model.Room {
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Available {
			out = append(out, r)
		}
	}
	return out
}

// Stats summarizes bookings and rooms for the admin dashboard.
func Stats(rooms []model.Room, bookings []model.Booking) model.AdminStats {
	st := model.AdminStats{TotalBookings: len(bookings), TotalRooms: len(rooms)}
	for _, b := range bookings {
		switch b.Status {
		case model.BookingStatusPending:
			st.PendingBookings++
		case model.BookingStatusApproved:
			st.ApprovedBookings++
			st.TotalRevenue += b.TotalPrice
		case model.BookingStatusRejected:
			st.RejectedBookings++
		}
	}
	for _, r := range rooms {
		if r.Available {
			st.AvailableRooms++
		}
	}
	if st.TotalRooms > 0 {
		st.OccupancyRate = math.Round(float64(st.TotalRooms-st.AvailableRooms)/float64(st.TotalRooms)*1000) / 10
	}
	return st
}
