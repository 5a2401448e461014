package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/service"
	"go.uber.org/zap"
)

// listLimit caps how many bookings one reply shows.
const listLimit = 20

func (c *AdminBot) help(context.Context, string) string {
	var sb strings.Builder
	sb.WriteString("🏨 ZENStay admin console\n\n")
	for _, cmd := range c.commands {
		fmt.Fprintf(&sb, "/%s - %s\n", cmd.name, cmd.description)
	}
	return sb.String()
}

func (c *AdminBot) listBookings(context.Context, string) string {
	bookings := c.dashboard.Bookings()
	if len(bookings) == 0 {
		return "📭 No bookings yet."
	}
	return formatBookings("📋 Bookings", bookings)
}

func (c *AdminBot) listPending(context.Context, string) string {
	pending := c.dashboard.Pending()
	if len(pending) == 0 {
		return "✅ Nothing waiting for a decision."
	}
	return formatBookings("⏳ Pending bookings", pending)
}

func (c *AdminBot) approve(ctx context.Context, args string) string {
	id, err := parseID(args)
	if err != nil {
		return "Usage: /approve <bookingId>"
	}
	b, err := c.dashboard.Approve(ctx, id)
	if err != nil {
		return c.failure("approve booking", id, err)
	}
	return fmt.Sprintf("✅ Booking #%d approved. Room %s is now occupied.", b.BookingID, roomLabel(b))
}

func (c *AdminBot) reject(ctx context.Context, args string) string {
	id, err := parseID(args)
	if err != nil {
		return "Usage: /reject <bookingId>"
	}
	b, err := c.dashboard.Reject(ctx, id)
	if err != nil {
		return c.failure("reject booking", id, err)
	}
	return fmt.Sprintf("❌ Booking #%d rejected.", b.BookingID)
}

func (c *AdminBot) freeRoom(ctx context.Context, args string) string {
	id, err := parseID(args)
	if err != nil {
		return "Usage: /free <roomId>"
	}
	res, err := c.dashboard.FreeRoom(ctx, id)
	if err != nil {
		return c.failure("free room", id, err)
	}
	if !res.Changed {
		return fmt.Sprintf("ℹ️ Room %s is already available.", res.Room.RoomNumber)
	}
	return fmt.Sprintf("🔓 Room %s is available again. Released %d booking(s).", res.Room.RoomNumber, len(res.Removed))
}

func (c *AdminBot) freeAll(ctx context.Context, _ string) string {
	released, err := c.dashboard.FreeAllRooms(ctx)
	if err != nil {
		return c.failure("free all rooms", 0, err)
	}
	return fmt.Sprintf("🧹 All rooms are available. Released %d approved booking(s).", len(released))
}

func (c *AdminBot) stats(context.Context, string) string {
	s := c.dashboard.Stats()
	return fmt.Sprintf(
		"📊 Hotel stats\n\n"+
			"Bookings: %d (pending %d, approved %d, rejected %d)\n"+
			"Rooms: %d available of %d\n"+
			"Occupancy: %.1f%%\n"+
			"Revenue: %.2f",
		s.TotalBookings, s.PendingBookings, s.ApprovedBookings, s.RejectedBookings,
		s.AvailableRooms, s.TotalRooms,
		s.OccupancyRate,
		s.TotalRevenue,
	)
}

func (c *AdminBot) refresh(ctx context.Context, _ string) string {
	if err := c.refresher.Refresh(ctx); err != nil {
		c.logger.Error("Manual refresh failed", zap.Error(err))
		return "❌ Could not reload data. Try again later."
	}
	return "🔄 Reloading data..."
}

func (c *AdminBot) hotelInfo(ctx context.Context, _ string) string {
	info := c.settings.HotelInfo(ctx)
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏨 %s\n", info.Name)
	for _, line := range [][2]string{
		{"Address", info.Address},
		{"Phone", info.Phone},
		{"Email", info.Email},
		{"Check-in", info.CheckInTime},
		{"Check-out", info.CheckOutTime},
	} {
		if line[1] != "" {
			fmt.Fprintf(&sb, "%s: %s\n", line[0], line[1])
		}
	}
	return sb.String()
}

func (c *AdminBot) reset(ctx context.Context, args string) string {
	if args != "confirm" {
		return "⚠️ This deletes every booking, room and session. Send /reset confirm to proceed."
	}
	c.settings.ResetSystem(ctx)
	c.logger.Warn("System reset from admin bot")
	return "🗑 All local data cleared."
}

func (c *AdminBot) failure(op string, id int64, err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, domain.ErrBookingNotFound):
		return fmt.Sprintf("🔍 Booking #%d not found.", id)
	case errors.Is(err, domain.ErrRoomNotFound):
		return fmt.Sprintf("🔍 Room #%d not found.", id)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Sprintf("⚠️ Booking #%d has already been processed.", id)
	}
	c.logger.Error("Admin command failed", zap.String("op", op), zap.Int64("id", id), zap.Error(err))
	return "❌ Something went wrong. Try again later."
}

func parseID(args string) (int64, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(fields[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", fields[0])
	}
	return id, nil
}

func formatBookings(title string, bookings []model.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d)\n\n", title, len(bookings))
	for i, b := range bookings {
		if i == listLimit {
			fmt.Fprintf(&sb, "... and %d more", len(bookings)-listLimit)
			break
		}
		fmt.Fprintf(&sb, "%s #%d %s, room %s, %s → %s, %.2f\n",
			statusIcon(b.Status), b.BookingID, b.GuestName, roomLabel(b), b.CheckInDate, b.CheckOutDate, b.TotalPrice)
	}
	return sb.String()
}

func roomLabel(b model.Booking) string {
	if b.Room != nil && b.Room.RoomNumber != "" {
		return b.Room.RoomNumber
	}
	return strconv.FormatInt(b.LinkedRoomID(), 10)
}

func statusIcon(s model.BookingStatus) string {
	switch s {
	case model.BookingStatusApproved:
		return "✅"
	case model.BookingStatusRejected:
		return "❌"
	default:
		return "⏳"
	}
}
