package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errRoomUnavailable = errors.New("room is not available")

// GET /api/bookings
func (s *Server) listBookings(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Bookings(c.Request.Context()))
}

// GET /api/bookings/:id
func (s *Server) getBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	for _, b := range s.store.Bookings(c.Request.Context()) {
		if b.BookingID == id {
			c.JSON(http.StatusOK, b)
			return
		}
	}
	errorJSON(c, http.StatusNotFound, bookingNotFound(id))
}

// POST /api/bookings
func (s *Server) createBooking(c *gin.Context) {
	var draft model.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if draft.RoomID == 0 {
		errorJSON(c, http.StatusBadRequest, "Room ID is required")
		return
	}

	dates, err := validation.Draft(draft)
	if err != nil {
		var ve *validation.Error
		if errors.As(err, &ve) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": strings.Join(ve.Messages, "; "),
				"errors":  ve.Messages,
			})
			return
		}
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	var booking model.Booking
	err = s.store.Update(c.Request.Context(), func(l *domain.Ledger) error {
		room, ok := l.Room(draft.RoomID)
		if !ok {
			return domain.ErrRoomNotFound
		}
		if !room.Available {
			return errRoomUnavailable
		}
		booking = model.Booking{
			BookingID:    l.NextBookingID(),
			GuestName:    strings.TrimSpace(draft.GuestName),
			GuestEmail:   strings.TrimSpace(draft.GuestEmail),
			CheckInDate:  dates.CheckIn,
			CheckOutDate: dates.CheckOut,
			RoomID:       room.RoomID,
			Room:         &room,
			TotalPrice:   domain.TotalPrice(dates.CheckIn, dates.CheckOut, &room),
			Status:       model.BookingStatusPending,
			UserID:       draft.UserID,
			CreatedAt:    s.now(),
		}
		l.UpsertBooking(booking)
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		errorJSON(c, http.StatusNotFound, fmt.Sprintf("Room not found with id: %d", draft.RoomID))
		return
	case errors.Is(err, errRoomUnavailable):
		errorJSON(c, http.StatusBadRequest, "Room is not available")
		return
	case err != nil:
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.BookingID),
		zap.Int64("room_id", booking.RoomID),
		zap.Float64("total_price", booking.TotalPrice))
	c.JSON(http.StatusCreated, booking)
}

// PUT /api/bookings/:id/status
func (s *Server) updateBookingStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	status, ok := model.ParseBookingStatus(body.Status)
	if !ok || status == model.BookingStatusPending {
		errorJSON(c, http.StatusBadRequest, "Invalid status: "+body.Status)
		return
	}
	s.setStatus(c, id, status)
}

// PUT /api/bookings/:id/payment approves a PENDING booking.
func (s *Server) processPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.setStatus(c, id, model.BookingStatusApproved)
}

func (s *Server) setStatus(c *gin.Context, id int64, status model.BookingStatus) {
	var tr domain.Transition
	err := s.store.Update(c.Request.Context(), func(l *domain.Ledger) error {
		var err error
		tr, err = l.SetStatus(id, status)
		return err
	})
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		errorJSON(c, http.StatusNotFound, bookingNotFound(id))
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		errorJSON(c, http.StatusBadRequest, "Booking has already been processed")
		return
	case err != nil:
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("Booking status updated",
		zap.Int64("booking_id", id),
		zap.String("status", string(status)),
		zap.Int64("room_id", tr.RoomID))
	c.JSON(http.StatusOK, tr.Booking)
}

// DELETE /api/bookings/:id
func (s *Server) cancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var removed model.Booking
	err := s.store.Update(c.Request.Context(), func(l *domain.Ledger) error {
		b, ok := l.RemoveBooking(id)
		if !ok {
			return domain.ErrBookingNotFound
		}
		removed = b
		if b.Status == model.BookingStatusApproved {
			l.SetRoomAvailability(b.LinkedRoomID(), true)
		}
		return nil
	})
	if err != nil {
		errorJSON(c, http.StatusNotFound, bookingNotFound(id))
		return
	}

	s.logger.Info("Booking cancelled", zap.Int64("booking_id", id), zap.String("status", string(removed.Status)))
	c.Status(http.StatusOK)
}

func bookingNotFound(id int64) string {
	return fmt.Sprintf("Booking not found with id: %d", id)
}
