package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"go.uber.org/zap"
)

// Audience selects who a message is meant for.
type Audience int

const (
	AudienceGuest Audience = iota
	AudienceAdmin
)

// Message is one outgoing notification.
type Message struct {
	Audience Audience
	To       string
	Subject  string
	Body     string
}

// Sender delivers messages for the audiences it serves.
type Sender interface {
	Serves(a Audience) bool
	Send(ctx context.Context, msg Message) error
}

// BookingLookup finds a stored booking by id.
type BookingLookup func(ctx context.Context, id int64) (model.Booking, bool)

const sendTimeout = 30 * time.Second

// Notifier turns booking events into guest and admin notifications.
// Sending happens off the publishing goroutine.
type Notifier struct {
	senders []Sender
	lookup  BookingLookup
	logger  *zap.Logger

	subs []*eventbus.Subscription
	wg   sync.WaitGroup
}

func NewNotifier(lookup BookingLookup, logger *zap.Logger, senders ...Sender) *Notifier {
	return &Notifier{senders: senders, lookup: lookup, logger: logger}
}

// Attach subscribes the notifier to the bus.
func (n *Notifier) Attach(bus *eventbus.Bus) error {
	created, err := eventbus.On(bus, n.onCreated)
	if err != nil {
		return fmt.Errorf("attach notifier: %w", err)
	}
	updated, err := eventbus.On(bus, n.onUpdated)
	if err != nil {
		created.Close()
		return fmt.Errorf("attach notifier: %w", err)
	}
	n.subs = append(n.subs, created, updated)
	return nil
}

// Close detaches from the bus and waits for pending sends.
func (n *Notifier) Close() {
	for _, s := range n.subs {
		s.Close()
	}
	n.subs = nil
	n.wg.Wait()
}

func (n *Notifier) onCreated(ctx context.Context, ev eventbus.BookingCreatedEvent) error {
	b := ev.Booking
	n.dispatch(ctx,
		Message{
			Audience: AudienceGuest,
			To:       b.GuestEmail,
			Subject:  "Booking Confirmation - ZENStay Hotel",
			Body:     guestCreatedBody(b),
		},
		Message{
			Audience: AudienceAdmin,
			Subject:  "New booking request",
			Body:     adminCreatedBody(b),
		},
	)
	return nil
}

func (n *Notifier) onUpdated(ctx context.Context, ev eventbus.BookingUpdatedEvent) error {
	if ev.Action == eventbus.ActionFreeAllRooms {
		n.dispatch(ctx, Message{
			Audience: AudienceAdmin,
			Subject:  "All rooms freed",
			Body:     "All rooms were marked available and approved bookings were released.",
		})
		return nil
	}
	if ev.Cancelled() {
		n.dispatch(ctx, Message{
			Audience: AudienceAdmin,
			Subject:  "Booking cancelled",
			Body:     fmt.Sprintf("Booking #%d was cancelled.", ev.BookingID),
		})
		return nil
	}

	b, ok := n.lookup(ctx, ev.BookingID)
	if !ok {
		n.logger.Warn("Booking for status notification not found", zap.Int64("booking_id", ev.BookingID))
		return nil
	}
	n.dispatch(ctx, Message{
		Audience: AudienceGuest,
		To:       b.GuestEmail,
		Subject:  "Booking Status Update - ZENStay Hotel",
		Body:     guestStatusBody(b, ev.Status),
	})
	return nil
}

func (n *Notifier) dispatch(ctx context.Context, msgs ...Message) {
	for _, msg := range msgs {
		for _, s := range n.senders {
			if !s.Serves(msg.Audience) {
				continue
			}
			if msg.Audience == AudienceGuest && msg.To == "" {
				continue
			}
			n.wg.Add(1)
			go n.send(context.WithoutCancel(ctx), s, msg)
		}
	}
}

func (n *Notifier) send(ctx context.Context, s Sender, msg Message) {
	defer n.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := s.Send(ctx, msg); err != nil {
		level := n.logger.Error
		if errors.Is(err, context.DeadlineExceeded) {
			level = n.logger.Warn
		}
		level("Failed to send notification",
			zap.String("subject", msg.Subject),
			zap.String("to", msg.To),
			zap.Error(err))
		return
	}
	n.logger.Debug("Notification sent", zap.String("subject", msg.Subject), zap.String("to", msg.To))
}

func guestCreatedBody(b model.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", b.GuestName)
	sb.WriteString("Thank you for choosing ZENStay. Your booking request has been received.\n\n")
	writeDetails(&sb, b)
	sb.WriteString("\nWe will notify you once it is confirmed.\n\nBest regards,\nZENStay Hotel")
	return sb.String()
}

func adminCreatedBody(b model.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New booking from %s (%s)\n", b.GuestName, b.GuestEmail)
	writeDetails(&sb, b)
	return sb.String()
}

func guestStatusBody(b model.Booking, status model.BookingStatus) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", b.GuestName)
	switch status {
	case model.BookingStatusApproved:
		sb.WriteString("Great news! Your booking has been confirmed.\n\n")
	case model.BookingStatusRejected:
		sb.WriteString("Unfortunately, we could not accept your booking.\n\n")
	default:
		fmt.Fprintf(&sb, "Your booking status is now %s.\n\n", status)
	}
	writeDetails(&sb, b)
	sb.WriteString("\nBest regards,\nZENStay Hotel")
	return sb.String()
}

func writeDetails(sb *strings.Builder, b model.Booking) {
	fmt.Fprintf(sb, "Booking ID: %d\n", b.BookingID)
	if b.Room != nil {
		fmt.Fprintf(sb, "Room: %s (%s)\n", b.Room.RoomNumber, b.Room.RoomType)
	} else if id := b.LinkedRoomID(); id != 0 {
		fmt.Fprintf(sb, "Room: %d\n", id)
	}
	fmt.Fprintf(sb, "Check-in: %s\nCheck-out: %s\n", b.CheckInDate, b.CheckOutDate)
	fmt.Fprintf(sb, "Total: %.2f\n", b.TotalPrice)
}
