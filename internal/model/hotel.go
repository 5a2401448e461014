package model

// HotelInfo holds the admin-editable hotel settings.
type HotelInfo struct {
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Description  string `json:"description,omitempty"`
	CheckInTime  string `json:"checkInTime,omitempty"`
	CheckOutTime string `json:"checkOutTime,omitempty"`
}

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	TotalBookings    int     `json:"totalBookings"`
	PendingBookings  int     `json:"pendingBookings"`
	ApprovedBookings int     `json:"approvedBookings"`
	RejectedBookings int     `json:"rejectedBookings"`
	TotalRooms       int     `json:"totalRooms"`
	AvailableRooms   int     `json:"availableRooms"`
	TotalRevenue     float64 `json:"totalRevenue"`
	OccupancyRate    float64 `json:"occupancyRate"`
}
