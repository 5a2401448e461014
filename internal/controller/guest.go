package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/service"
	"github.com/Freeeeeet/hotel_booking/internal/session"
	"github.com/Freeeeeet/hotel_booking/internal/validation"
	"go.uber.org/zap"
)

// Catalogue is the room listing a guest browses.
type Catalogue interface {
	Rooms() []model.Room
	Offline() bool
	SetAvailableOnly(only bool)
	Settle()
}

// MyBookings is the logged-in guest's booking list. It is refreshed
// whenever the session changes.
type MyBookings interface {
	Bookings() []model.Booking
	Cancel(ctx context.Context, id int64) error
	Refresh()
	Settle()
}

type Booker interface {
	CreateBooking(ctx context.Context, draft model.BookingDraft) (service.Outcome[model.Booking], error)
}

type Payer interface {
	Pay(ctx context.Context, id int64) (service.Outcome[model.Booking], error)
}

// Accounts signs guests up, in and out.
type Accounts interface {
	SignUp(ctx context.Context, form model.SignUpForm) (model.UserProfile, error)
	Login(ctx context.Context, email, password string) (model.UserProfile, error)
	Logout(ctx context.Context, kind session.Kind) error
}

// GuestConsole runs the guest commands: browsing rooms, booking, paying
// and managing the account.
type GuestConsole struct {
	catalogue  Catalogue
	myBookings MyBookings
	booker     Booker
	payer      Payer
	accounts   Accounts
	logger     *zap.Logger
	commands   []command
}

func NewGuestConsole(catalogue Catalogue, myBookings MyBookings, booker Booker, payer Payer, accounts Accounts, logger *zap.Logger) *GuestConsole {
	c := &GuestConsole{
		catalogue:  catalogue,
		myBookings: myBookings,
		booker:     booker,
		payer:      payer,
		accounts:   accounts,
		logger:     logger,
	}
	c.commands = []command{
		{"start", "🏨 Welcome", c.help},
		{"help", "❓ Command reference", c.help},
		{"rooms", "🛏 Rooms: /rooms [available]", c.rooms},
		{"book", "📝 Book: /book <roomId> <checkIn> <checkOut> <email> <name>", c.book},
		{"mybookings", "📋 Your bookings", c.listMine},
		{"cancel", "🚫 Cancel booking: /cancel <id>", c.cancel},
		{"pay", "💳 Pay booking: /pay <id>", c.pay},
		{"signup", "👤 Sign up: /signup <email> <password> <name>", c.signUp},
		{"login", "🔑 Log in: /login <email> <password>", c.login},
		{"logout", "👋 Log out", c.logout},
	}
	return c
}

// Execute runs one command line and returns the reply text.
func (c *GuestConsole) Execute(ctx context.Context, text string) string {
	return dispatch(ctx, c.commands, text, c.logger)
}

func (c *GuestConsole) help(context.Context, string) string {
	var sb strings.Builder
	sb.WriteString("🏨 Welcome to ZENStay\n\n")
	for _, cmd := range c.commands {
		fmt.Fprintf(&sb, "/%s - %s\n", cmd.name, cmd.description)
	}
	return sb.String()
}

func (c *GuestConsole) rooms(_ context.Context, args string) string {
	c.catalogue.SetAvailableOnly(strings.EqualFold(args, "available"))
	c.catalogue.Settle()

	rooms := c.catalogue.Rooms()
	if len(rooms) == 0 {
		return "😔 No rooms to show."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🛏 Rooms (%d)\n\n", len(rooms))
	for _, r := range rooms {
		state := "available"
		if !r.Available {
			state = "occupied"
		}
		fmt.Fprintf(&sb, "#%d %s %s, %.2f/night, up to %d guests, %s\n",
			r.RoomID, r.RoomNumber, r.RoomType, r.PricePerNight, r.Capacity, state)
	}
	if c.catalogue.Offline() {
		sb.WriteString("\n📴 Offline, showing saved data.")
	}
	return sb.String()
}

func (c *GuestConsole) book(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	if len(fields) < 5 {
		return "Usage: /book <roomId> <checkIn> <checkOut> <email> <name>"
	}
	roomID, err := parseID(fields[0])
	if err != nil {
		return "Usage: /book <roomId> <checkIn> <checkOut> <email> <name>"
	}

	out, err := c.booker.CreateBooking(ctx, model.BookingDraft{
		RoomID:       roomID,
		CheckInDate:  fields[1],
		CheckOutDate: fields[2],
		GuestEmail:   fields[3],
		GuestName:    strings.Join(fields[4:], " "),
	})
	if err != nil {
		return c.failure("create booking", roomID, err)
	}

	b := out.Value
	reply := fmt.Sprintf("📝 Booking #%d created for room %s, %s → %s. Total %.2f. Pay with /pay %d",
		b.BookingID, roomLabel(b), b.CheckInDate, b.CheckOutDate, b.TotalPrice, b.BookingID)
	return withOffline(reply, out.Degraded)
}

func (c *GuestConsole) listMine(context.Context, string) string {
	c.myBookings.Settle()
	bookings := c.myBookings.Bookings()
	if len(bookings) == 0 {
		return "📭 You have no bookings. Log in or book a room first."
	}
	return formatBookings("📋 Your bookings", bookings)
}

func (c *GuestConsole) cancel(ctx context.Context, args string) string {
	id, err := parseID(args)
	if err != nil {
		return "Usage: /cancel <bookingId>"
	}
	if err := c.myBookings.Cancel(ctx, id); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return fmt.Sprintf("⚠️ Booking #%d is confirmed and can only be released by the hotel.", id)
		}
		return c.failure("cancel booking", id, err)
	}
	return fmt.Sprintf("🚫 Booking #%d cancelled.", id)
}

func (c *GuestConsole) pay(ctx context.Context, args string) string {
	id, err := parseID(args)
	if err != nil {
		return "Usage: /pay <bookingId>"
	}
	out, err := c.payer.Pay(ctx, id)
	if err != nil {
		var processed *service.AlreadyProcessedError
		if errors.As(err, &processed) {
			return fmt.Sprintf("ℹ️ Booking #%d is already %s.", id, processed.Status)
		}
		return c.failure("pay booking", id, err)
	}
	reply := fmt.Sprintf("💳 Payment received. Booking #%d is confirmed, room %s is yours.", id, roomLabel(out.Value))
	return withOffline(reply, out.Degraded)
}

func (c *GuestConsole) signUp(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "Usage: /signup <email> <password> <name>"
	}
	profile, err := c.accounts.SignUp(ctx, model.SignUpForm{
		Email:           fields[0],
		Password:        fields[1],
		ConfirmPassword: fields[1],
		Name:            strings.Join(fields[2:], " "),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return "⚠️ This email is already registered. Use /login."
		}
		return c.failure("sign up", 0, err)
	}
	c.myBookings.Refresh()
	return fmt.Sprintf("👤 Welcome, %s! You are logged in.", profile.Name)
}

func (c *GuestConsole) login(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "Usage: /login <email> <password>"
	}
	profile, err := c.accounts.Login(ctx, fields[0], fields[1])
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return "⛔ Wrong email or password."
		}
		return c.failure("log in", 0, err)
	}
	c.myBookings.Refresh()
	return fmt.Sprintf("🔑 Welcome back, %s!", profile.Name)
}

func (c *GuestConsole) logout(ctx context.Context, _ string) string {
	if err := c.accounts.Logout(ctx, session.KindUser); err != nil {
		return c.failure("log out", 0, err)
	}
	c.myBookings.Refresh()
	return "👋 Logged out."
}

func (c *GuestConsole) failure(op string, id int64, err error) string {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		return "⚠️ " + strings.Join(ve.Messages, "\n⚠️ ")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, domain.ErrBookingNotFound):
		return fmt.Sprintf("🔍 Booking #%d not found.", id)
	}
	c.logger.Error("Guest command failed", zap.String("op", op), zap.Int64("id", id), zap.Error(err))
	return "❌ Something went wrong. Try again later."
}

func withOffline(reply string, degraded bool) string {
	if degraded {
		return reply + "\n📴 Saved offline, it will sync when the hotel is reachable."
	}
	return reply
}
