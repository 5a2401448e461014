package domain

import (
	"strconv"

	"github.com/Freeeeeet/hotel_booking/internal/model"
)

// DefaultRooms is the demo inventory used when no rooms are stored.
func DefaultRooms() []model.Room {
	return []model.Room{
		{RoomID: 1, RoomNumber: "101", RoomType: "Deluxe Room", PricePerNight: 3500, Capacity: 2, Available: true, Rating: 4.5,
			Amenities: []string{"WiFi", "AC", "TV", "Room Service"}},
		{RoomID: 2, RoomNumber: "102", RoomType: "Premium Suite", PricePerNight: 5500, Capacity: 4, Available: true, Rating: 4.7,
			Amenities: []string{"WiFi", "AC", "TV", "Mini Bar", "Balcony"}},
		{RoomID: 3, RoomNumber: "201", RoomType: "Executive Room", PricePerNight: 4200, Capacity: 3, Available: true, Rating: 4.3,
			Amenities: []string{"WiFi", "AC", "TV", "Work Desk"}},
		{RoomID: 4, RoomNumber: "202", RoomType: "Royal Suite", PricePerNight: 8500, Capacity: 4, Available: true, Rating: 4.9,
			Amenities: []string{"WiFi", "AC", "TV", "Jacuzzi", "Butler Service"}},
		{RoomID: 5, RoomNumber: "301", RoomType: "Business Room", PricePerNight: 4800, Capacity: 2, Available: true, Rating: 4.4,
			Amenities: []string{"WiFi", "AC", "TV", "Conference Setup"}},
	}
}

// FallbackRoom is the synthetic room used when a booking names an unknown room.
func FallbackRoom(roomID int64) model.Room {
	return model.Room{
		RoomID:        roomID,
		RoomNumber:    strconv.FormatInt(roomID, 10),
		RoomType:      "Standard Room",
		PricePerNight: DefaultNightlyRate,
		Capacity:      2,
		Available:     true,
		Rating:        4.0,
	}
}

// DefaultHotelInfo is shown until an admin saves settings.
func DefaultHotelInfo() model.HotelInfo {
	return model.HotelInfo{
		Name:         "ZENStay Hotel",
		Address:      "123 Serenity Road",
		Phone:        "+91 98765 43210",
		Email:        "info@zenstay.com",
		Description:  "Experience tranquility and comfort",
		CheckInTime:  "14:00",
		CheckOutTime: "11:00",
	}
}
