package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusInTransit BookingStatus = "in-transit"
	BookingStatusDelivered BookingStatus = "delivered"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// CargoType classifies the cargo carried by a booking
type CargoType string

const (
	CargoTypeGeneral    CargoType = "general"
	CargoTypeHazardous  CargoType = "hazardous"
	CargoTypePerishable CargoType = "perishable"
	CargoTypeValuable   CargoType = "valuable"
)

// Cargo describes the goods being shipped
type Cargo struct {
	Description string    `bson:"description" json:"description"`
	WeightKg    float64   `bson:"weight_kg" json:"weight"`
	Dimensions  string    `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Type        CargoType `bson:"type" json:"type"`
}

// Route describes an origin/destination leg with its schedule.
// Arrival before departure is not rejected anywhere.
type Route struct {
	Origin        string    `bson:"origin" json:"origin"`
	Destination   string    `bson:"destination" json:"destination"`
	DepartureTime time.Time `bson:"departure_time" json:"departureTime"`
	ArrivalTime   time.Time `bson:"arrival_time" json:"arrivalTime"`
}

// Booking represents a cargo booking. UserID is set at creation and never
// reassigned.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingCode  string             `bson:"tracking_code" json:"trackingCode"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	CargoDetails  Cargo              `bson:"cargo_details" json:"cargoDetails"`
	Route         Route              `bson:"route" json:"route"`
	Status        BookingStatus      `bson:"status" json:"status"`
	Price         float64            `bson:"price" json:"price"`
	PaymentStatus PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	CargoDetails Cargo   `json:"cargoDetails"`
	Route        Route   `json:"route"`
	Price        float64 `json:"price"`
}

// UpdateBookingStatusRequest represents a booking status update
type UpdateBookingStatusRequest struct {
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
}

// IsValidBookingStatus checks membership in the booking status set
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInTransit,
		BookingStatusDelivered, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsValidPaymentStatus checks membership in the payment status set
func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// IsValidCargoType checks membership in the cargo type set
func IsValidCargoType(t CargoType) bool {
	switch t {
	case CargoTypeGeneral, CargoTypeHazardous, CargoTypePerishable, CargoTypeValuable:
		return true
	default:
		return false
	}
}
