package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	TripStatusScheduled  TripStatus = "scheduled"
	TripStatusInProgress TripStatus = "in-progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

// Trip represents a transport run carrying a set of bookings on a vehicle
type Trip struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	TripCode        string               `bson:"trip_code" json:"tripCode"`
	VehicleID       primitive.ObjectID   `bson:"vehicle_id" json:"vehicleId"`
	DriverID        primitive.ObjectID   `bson:"driver_id" json:"driverId"`
	CoDriverID      *primitive.ObjectID  `bson:"co_driver_id,omitempty" json:"coDriverId,omitempty"`
	BookingIDs      []primitive.ObjectID `bson:"booking_ids" json:"bookings"`
	Route           Route                `bson:"route" json:"route"`
	FuelUsed        float64              `bson:"fuel_used" json:"fuelUsed"`
	Distance        float64              `bson:"distance" json:"distance"`
	Status          TripStatus           `bson:"status" json:"status"`
	PermitID        string               `bson:"permit_id,omitempty" json:"permitId,omitempty"`
	TaxPayment      string               `bson:"tax_payment,omitempty" json:"taxPayment,omitempty"`
	DeliveryReceipt string               `bson:"delivery_receipt,omitempty" json:"deliveryReceipt,omitempty"`
	CreatedAt       time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updated_at" json:"updatedAt"`
}

// TripView is a trip with its references resolved for display
type TripView struct {
	Trip
	Vehicle          *Vehicle  `json:"vehicle,omitempty"`
	Driver           *User     `json:"driver,omitempty"`
	CoDriver         *User     `json:"coDriver,omitempty"`
	ResolvedBookings []Booking `json:"resolvedBookings,omitempty"`
}

// CreateTripRequest represents a trip creation request
type CreateTripRequest struct {
	VehicleID       string   `json:"vehicleId"`
	DriverID        string   `json:"driverId"`
	CoDriverID      string   `json:"coDriverId"`
	Route           Route    `json:"route"`
	Bookings        []string `json:"bookings"`
	PermitID        string   `json:"permitId"`
	TaxPayment      string   `json:"taxPayment"`
	DeliveryReceipt string   `json:"deliveryReceipt"`
}

// UpdateTripStatusRequest represents a trip status update. FuelUsed and
// Distance are pointers so that absent and zero can be told apart.
type UpdateTripStatusRequest struct {
	Status   TripStatus `json:"status"`
	FuelUsed *float64   `json:"fuelUsed,omitempty"`
	Distance *float64   `json:"distance,omitempty"`
}

// IsValidTripStatus checks membership in the trip status set
func IsValidTripStatus(s TripStatus) bool {
	switch s {
	case TripStatusScheduled, TripStatusInProgress, TripStatusCompleted, TripStatusCancelled:
		return true
	default:
		return false
	}
}
