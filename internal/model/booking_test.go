package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_OwnedBy(t *testing.T) {
	tests := []struct {
		name    string
		booking Booking
		owner   OwnerID
		email   string
		want    bool
	}{
		{"user id", Booking{UserID: "111"}, "111", "a@x.io", true},
		{"guest email names owner", Booking{UserID: "a@x.io", GuestEmail: "a@x.io"}, "a@x.io", "a@x.io", true},
		{"anonymous booking by email", Booking{GuestEmail: "A@X.io"}, "111", "a@x.io", true},
		{"other user with same email", Booking{UserID: "222", GuestEmail: "a@x.io"}, "111", "a@x.io", false},
		{"other user", Booking{UserID: "222"}, "111", "a@x.io", false},
		{"no session", Booking{GuestEmail: "a@x.io"}, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.OwnedBy(tt.owner, tt.email))
		})
	}
}
