package domain

import (
	"testing"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  model.Date
		checkOut model.Date
		want     int
	}{
		{"two nights", model.NewDate(2025, time.June, 1), model.NewDate(2025, time.June, 3), 2},
		{"same day", model.NewDate(2025, time.June, 1), model.NewDate(2025, time.June, 1), 0},
		{"reversed dates count absolute distance", model.NewDate(2025, time.June, 5), model.NewDate(2025, time.June, 1), 4},
		{"partial day rounds up", model.Date{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}, model.Date{Time: time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)}, 2},
		{"month boundary", model.NewDate(2025, time.January, 30), model.NewDate(2025, time.February, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestNightlyRate(t *testing.T) {
	assert.Equal(t, 3500.0, NightlyRate(&model.Room{PricePerNight: 3500, Price: 10}))
	assert.Equal(t, 2000.0, NightlyRate(&model.Room{Price: 2000}))
	assert.Equal(t, DefaultNightlyRate, NightlyRate(&model.Room{}))
	assert.Equal(t, DefaultNightlyRate, NightlyRate(nil))
}

func TestTotalPrice_FallbackRoom(t *testing.T) {
	room := FallbackRoom(99)

	total := TotalPrice(model.NewDate(2025, time.June, 1), model.NewDate(2025, time.June, 3), &room)

	assert.Equal(t, 3000.0, total)
	assert.Equal(t, "99", room.RoomNumber)
	assert.Equal(t, "Standard Room", room.RoomType)
	assert.Equal(t, 2, room.Capacity)
	assert.True(t, room.Available)
}
