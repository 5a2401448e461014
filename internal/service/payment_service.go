package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"go.uber.org/zap"
)

// DefaultPaymentDelay imitates the payment processor round trip.
const DefaultPaymentDelay = 2 * time.Second

type PaymentService struct {
	bookings *BookingService
	delay    time.Duration
	logger   *zap.Logger
}

func NewPaymentService(bookings *BookingService, delay time.Duration, logger *zap.Logger) *PaymentService {
	return &PaymentService{bookings: bookings, delay: delay, logger: logger}
}

// Load returns a booking that can still be paid.
func (s *PaymentService) Load(ctx context.Context, id int64) (model.Booking, error) {
	out, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if out.Value.Status != model.BookingStatusPending {
		return out.Value, &AlreadyProcessedError{Status: out.Value.Status}
	}
	return out.Value, nil
}

// Pay charges a PENDING booking and approves it. The approval is
// recorded locally even when the API is unreachable.
func (s *PaymentService) Pay(ctx context.Context, id int64) (Outcome[model.Booking], error) {
	booking, err := s.Load(ctx, id)
	if err != nil {
		return Outcome[model.Booking]{}, err
	}

	s.logger.Info("Processing payment",
		zap.Int64("booking_id", id),
		zap.Float64("amount", booking.TotalPrice))

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return Outcome[model.Booking]{}, ctx.Err()
		}
	}

	b := s.bookings
	paid, remoteErr := b.remote.PayBooking(ctx, id)
	if remoteErr != nil {
		b.fallback("pay booking", remoteErr)
	}

	tr, err := b.transition(ctx, id, model.BookingStatusApproved, paid, remoteErr)
	if err != nil {
		return Outcome[model.Booking]{}, err
	}

	s.logger.Info("Payment completed", zap.Int64("booking_id", id), zap.Int64("room_id", tr.RoomID))
	b.publishTransition(ctx, tr, eventbus.SourcePayment)

	if remoteErr != nil {
		return degraded(tr.Booking, remoteErr), nil
	}
	return synced(tr.Booking), nil
}
