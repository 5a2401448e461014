package domain

import (
	"math"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/model"
)

const (
	DefaultNightlyRate = 1500.0
	day                = 24 * time.Hour
)

// Nights is the ceiling of the absolute day distance between the dates.
func Nights(checkIn, checkOut model.Date) int {
	diff := checkOut.Sub(checkIn.Time)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}

// NightlyRate prefers pricePerNight, then the price alias, then the default rate.
func NightlyRate(room *model.Room) float64 {
	if room == nil {
		return DefaultNightlyRate
	}
	if room.PricePerNight > 0 {
		return room.PricePerNight
	}
	if room.Price > 0 {
		return room.Price
	}
	return DefaultNightlyRate
}

func TotalPrice(checkIn, checkOut model.Date, room *model.Room) float64 {
	return float64(Nights(checkIn, checkOut)) * NightlyRate(room)
}
