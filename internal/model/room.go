package model

type Room struct {
	RoomID        int64    `json:"roomId"`
	RoomNumber    string   `json:"roomNumber"`
	RoomType      string   `json:"roomType"`
	PricePerNight float64  `json:"pricePerNight"`
	Price         float64  `json:"price,omitempty"` // legacy alias of pricePerNight
	Capacity      int      `json:"capacity"`
	Available     bool     `json:"available"`
	Rating        float64  `json:"rating"`
	Amenities     []string `json:"amenities,omitempty"`
}

func (r Room) Key() int64 { return r.RoomID }
