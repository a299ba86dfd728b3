package models

import "time"

// User is an account that can log in. PasswordHash never leaves the store
// layer in API responses.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Booking captures a doorstep service request. Contact fields are snapshotted
// at booking time and do not follow later profile changes.
type Booking struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	FullName      string    `json:"full_name"`
	PhoneNumber   string    `json:"phone_number"`
	Email         string    `json:"email"`
	VehicleType   string    `json:"vehicle_type"`
	VehicleModel  string    `json:"vehicle_model"`
	ServiceType   string    `json:"service_type"`
	Address       string    `json:"address"`
	Lat           *float64  `json:"lat"`
	Lng           *float64  `json:"lng"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ServiceCount is one row of the per-service booking breakdown.
type ServiceCount struct {
	ServiceType string `json:"service_type"`
	Count       int64  `json:"count"`
}

// Stats is the admin dashboard aggregate. All four numbers come from a single
// read transaction so they are mutually consistent.
type Stats struct {
	TotalBookings    int64          `json:"totalBookings"`
	TotalCustomers   int64          `json:"totalCustomers"`
	TodayBookings    int64          `json:"todayBookings"`
	ServiceBreakdown []ServiceCount `json:"serviceBreakdown"`
}
