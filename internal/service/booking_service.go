package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/session"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/Freeeeeet/hotel_booking/internal/validation"
	"go.uber.org/zap"
)

// DefaultRoomID is booked when the form names no room.
const DefaultRoomID = 1

type BookingService struct {
	syncer
	rooms    *RoomService
	sessions *session.Provider
}

func NewBookingService(
	store *storage.Store,
	api Remote,
	bus *eventbus.Bus,
	rooms *RoomService,
	sessions *session.Provider,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		syncer:   newSyncer(store, api, bus, logger),
		rooms:    rooms,
		sessions: sessions,
	}
}

// CreateBooking validates the draft, prices the stay and records a
// PENDING booking. Offline the id is the current unix time in ms.
func (s *BookingService) CreateBooking(ctx context.Context, draft model.BookingDraft) (Outcome[model.Booking], error) {
	dates, err := validation.Draft(draft)
	if err != nil {
		return Outcome[model.Booking]{}, err
	}

	if draft.RoomID == 0 {
		draft.RoomID = DefaultRoomID
	}
	draft.GuestName = strings.TrimSpace(draft.GuestName)
	draft.GuestEmail = strings.TrimSpace(draft.GuestEmail)

	owner := s.sessions.Current(ctx).Owner()
	if owner == "" {
		owner = model.OwnerID(draft.GuestEmail)
	}
	draft.UserID = owner

	room := s.rooms.Room(ctx, draft.RoomID)
	local := model.Booking{
		GuestName:    draft.GuestName,
		GuestEmail:   draft.GuestEmail,
		CheckInDate:  dates.CheckIn,
		CheckOutDate: dates.CheckOut,
		RoomID:       room.RoomID,
		Room:         &room,
		TotalPrice:   domain.TotalPrice(dates.CheckIn, dates.CheckOut, &room),
		Status:       model.BookingStatusPending,
		UserID:       owner,
		CreatedAt:    s.now(),
	}

	created, remoteErr := s.remote.CreateBooking(ctx, draft)
	if remoteErr != nil {
		s.fallback("create booking", remoteErr)
	}

	var booking model.Booking
	_ = s.store.Update(ctx, func(l *domain.Ledger) error {
		if remoteErr == nil {
			booking = mergeBooking(*created, local)
		} else {
			booking = local
			booking.BookingID = s.now().UnixMilli()
			if _, taken := l.Booking(booking.BookingID); taken {
				booking.BookingID = l.NextBookingID()
			}
		}
		l.UpsertBooking(booking)
		return nil
	})

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.BookingID),
		zap.Int64("room_id", booking.RoomID),
		zap.Float64("total_price", booking.TotalPrice),
		zap.Bool("offline", remoteErr != nil))

	s.publish(ctx,
		eventbus.BookingCreatedEvent{Booking: booking},
		eventbus.DataRefreshEvent{Source: eventbus.SourceBookingCreated},
	)

	if remoteErr != nil {
		return degraded(booking, remoteErr), nil
	}
	return synced(booking), nil
}

// ListBookings returns every booking, newest first. API results are
// merged with bookings the API has not seen yet and written back.
func (s *BookingService) ListBookings(ctx context.Context) Outcome[[]model.Booking] {
	remoteBookings, err := s.remote.ListBookings(ctx)
	if err != nil {
		s.fallback("list bookings", err)
		bookings := s.store.Bookings(ctx)
		domain.SortNewestFirst(bookings)
		return degraded(bookings, err)
	}

	var merged []model.Booking
	_ = s.store.Update(ctx, func(l *domain.Ledger) error {
		local := make(map[int64]model.Booking, len(l.Bookings))
		for _, b := range l.Bookings {
			local[b.BookingID] = b
		}
		for i, b := range remoteBookings {
			if prev, ok := local[b.BookingID]; ok {
				remoteBookings[i] = mergeBooking(b, prev)
			}
		}
		merged = domain.Merge(remoteBookings, l.Bookings)
		l.ReplaceBookings(merged)
		return nil
	})

	sorted := append([]model.Booking(nil), merged...)
	domain.SortNewestFirst(sorted)
	return synced(sorted)
}

// UserBookings filters ListBookings down to the logged-in user. Without
// a user session the list is empty.
func (s *BookingService) UserBookings(ctx context.Context) Outcome[[]model.Booking] {
	all := s.ListBookings(ctx)

	st := s.sessions.Current(ctx)
	if st.User == nil {
		all.Value = []model.Booking{}
		return all
	}

	mine := make([]model.Booking, 0, len(all.Value))
	for _, b := range all.Value {
		if b.OwnedBy(st.Owner(), st.User.Email) {
			mine = append(mine, b)
		}
	}
	all.Value = mine
	return all
}

// GetBooking returns ErrNotFound when neither the API nor the store
// knows the id.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (Outcome[model.Booking], error) {
	remoteBooking, err := s.remote.GetBooking(ctx, id)
	if err == nil {
		var booking model.Booking
		_ = s.store.Update(ctx, func(l *domain.Ledger) error {
			booking = *remoteBooking
			if prev, ok := l.Booking(id); ok {
				booking = mergeBooking(booking, prev)
			}
			l.UpsertBooking(booking)
			return nil
		})
		return synced(booking), nil
	}

	s.fallback("get booking", err)
	for _, b := range s.store.Bookings(ctx) {
		if b.BookingID == id {
			return degraded(b, err), nil
		}
	}
	return Outcome[model.Booking]{Degraded: true, Cause: err}, fmt.Errorf("booking %d: %w", id, ErrNotFound)
}

func (s *BookingService) Approve(ctx context.Context, id int64) (Outcome[model.Booking], error) {
	return s.UpdateBookingStatus(ctx, id, model.BookingStatusApproved)
}

func (s *BookingService) Reject(ctx context.Context, id int64) (Outcome[model.Booking], error) {
	return s.UpdateBookingStatus(ctx, id, model.BookingStatusRejected)
}

// UpdateBookingStatus moves a PENDING booking to APPROVED or REJECTED.
// Approval marks the booked room unavailable.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id int64, status model.BookingStatus) (Outcome[model.Booking], error) {
	if status != model.BookingStatusApproved && status != model.BookingStatusRejected {
		return Outcome[model.Booking]{}, fmt.Errorf("set status %s: %w", status, domain.ErrInvalidTransition)
	}
	if err := s.checkTransition(ctx, id, status); err != nil {
		return Outcome[model.Booking]{}, err
	}

	updated, remoteErr := s.remote.UpdateBookingStatus(ctx, id, status)
	if remoteErr != nil {
		s.fallback("update booking status", remoteErr)
	}

	tr, err := s.transition(ctx, id, status, updated, remoteErr)
	if err != nil {
		return Outcome[model.Booking]{}, err
	}

	s.logger.Info("Booking status updated",
		zap.Int64("booking_id", id),
		zap.String("status", string(status)),
		zap.Int64("room_id", tr.RoomID))

	s.publishTransition(ctx, tr, eventbus.SourceAdminDashboard)

	if remoteErr != nil {
		return degraded(tr.Booking, remoteErr), nil
	}
	return synced(tr.Booking), nil
}

// checkTransition rejects a move the stored copy already rules out.
func (s *BookingService) checkTransition(ctx context.Context, id int64, status model.BookingStatus) error {
	for _, b := range s.store.Bookings(ctx) {
		if b.BookingID == id && !domain.CanTransition(b.Status, status) {
			return fmt.Errorf("booking %d %s -> %s: %w", id, b.Status, status, domain.ErrInvalidTransition)
		}
	}
	return nil
}

// transition writes a status change through the store, preferring the
// API's copy of the booking when the call succeeded.
func (s *BookingService) transition(ctx context.Context, id int64, status model.BookingStatus, fromAPI *model.Booking, remoteErr error) (domain.Transition, error) {
	var tr domain.Transition
	err := s.store.Update(ctx, func(l *domain.Ledger) error {
		if remoteErr == nil && fromAPI != nil {
			b := *fromAPI
			if prev, ok := l.Booking(id); ok {
				b = mergeBooking(b, prev)
			}
			if b.Status == "" {
				b.Status = status
			}
			tr = l.ApplyRemote(b)
			return nil
		}
		var err error
		tr, err = l.SetStatus(id, status)
		return err
	})
	if errors.Is(err, domain.ErrBookingNotFound) {
		return tr, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return tr, fmt.Errorf("booking %d: %w", id, err)
	}
	return tr, nil
}

func (s *BookingService) publishTransition(ctx context.Context, tr domain.Transition, source string) {
	events := make([]eventbus.Event, 0, 3)
	if tr.RoomID != 0 {
		events = append(events, eventbus.RoomUpdatedEvent{RoomID: tr.RoomID, Available: false})
	}
	events = append(events,
		eventbus.BookingUpdatedEvent{BookingID: tr.Booking.BookingID, Status: tr.Booking.Status},
		eventbus.DataRefreshEvent{Source: source},
	)
	s.publish(ctx, events...)
}

// CancelBooking removes a booking on behalf of its guest. PENDING
// bookings are also deleted through the API, REJECTED ones only locally.
// APPROVED bookings are released by the admin with FreeRoom instead.
func (s *BookingService) CancelBooking(ctx context.Context, id int64) (Outcome[model.Booking], error) {
	var current *model.Booking
	for _, b := range s.store.Bookings(ctx) {
		if b.BookingID == id {
			current = &b
			break
		}
	}
	if current == nil {
		return Outcome[model.Booking]{}, fmt.Errorf("cancel booking %d: %w", id, ErrNotFound)
	}

	var remoteErr error
	switch current.Status {
	case model.BookingStatusPending:
		if remoteErr = s.remote.CancelBooking(ctx, id); remoteErr != nil {
			s.fallback("cancel booking", remoteErr)
		}
	case model.BookingStatusRejected:
	default:
		return Outcome[model.Booking]{}, fmt.Errorf("cancel booking %d in status %s: %w", id, current.Status, domain.ErrInvalidTransition)
	}

	var removed model.Booking
	_ = s.store.Update(ctx, func(l *domain.Ledger) error {
		removed, _ = l.RemoveBooking(id)
		return nil
	})
	if removed.BookingID == 0 {
		removed = *current
	}

	s.logger.Info("Booking cancelled", zap.Int64("booking_id", id), zap.String("status", string(current.Status)))
	s.publish(ctx,
		eventbus.BookingUpdatedEvent{BookingID: id, Status: eventbus.StatusCancelled},
		eventbus.DataRefreshEvent{Source: eventbus.SourceUserCancel},
	)

	if remoteErr != nil {
		return degraded(removed, remoteErr), nil
	}
	return synced(removed), nil
}
