package models

// DashboardStats holds the aggregate counters shown on the dashboard.
// TotalRevenue only counts bookings whose payment status is "paid".
type DashboardStats struct {
	TotalBookings int64   `json:"totalBookings"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalTrips    int64   `json:"totalTrips"`
	TotalVehicles int64   `json:"totalVehicles"`
}

// DashboardResponse is the full dashboard payload
type DashboardResponse struct {
	Stats          DashboardStats `json:"stats"`
	RecentBookings []Booking      `json:"recentBookings"`
	ActiveTrips    []Trip         `json:"activeTrips"`
}
