package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleType classifies a fleet vehicle
type VehicleType string

const (
	VehicleTypePlane VehicleType = "plane"
	VehicleTypeShip  VehicleType = "ship"
	VehicleTypeTrain VehicleType = "train"
	VehicleTypeTruck VehicleType = "truck"
)

// VehicleStatus represents operational state of a vehicle
type VehicleStatus string

const (
	VehicleStatusOperating   VehicleStatus = "operating"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusGrounded    VehicleStatus = "grounded"
)

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	VehicleCode      string              `bson:"vehicle_code" json:"vehicleCode"`
	Type             VehicleType         `bson:"type" json:"type"`
	CapacityKg       float64             `bson:"capacity_kg" json:"capacity"`
	Status           VehicleStatus       `bson:"status" json:"status"`
	CurrentLocation  string              `bson:"current_location" json:"currentLocation"`
	AssignedDriverID *primitive.ObjectID `bson:"assigned_driver_id,omitempty" json:"assignedDriverId,omitempty"`
	CreatedAt        time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updated_at" json:"updatedAt"`
}

// VehicleView is a vehicle with its assigned driver resolved for display
type VehicleView struct {
	Vehicle
	AssignedDriver *User `json:"assignedDriver,omitempty"`
}

// CreateVehicleRequest represents a vehicle creation request
type CreateVehicleRequest struct {
	VehicleCode      string      `json:"vehicleCode"`
	Type             VehicleType `json:"type"`
	Capacity         float64     `json:"capacity"`
	CurrentLocation  string      `json:"currentLocation"`
	AssignedDriverID string      `json:"assignedDriverId"`
}

// UpdateVehicleStatusRequest represents a vehicle status update
type UpdateVehicleStatusRequest struct {
	Status          VehicleStatus `json:"status"`
	CurrentLocation string        `json:"currentLocation,omitempty"`
}

// IsValidVehicleType checks membership in the vehicle type set
func IsValidVehicleType(t VehicleType) bool {
	switch t {
	case VehicleTypePlane, VehicleTypeShip, VehicleTypeTrain, VehicleTypeTruck:
		return true
	default:
		return false
	}
}

// IsValidVehicleStatus checks membership in the vehicle status set
func IsValidVehicleStatus(s VehicleStatus) bool {
	switch s {
	case VehicleStatusOperating, VehicleStatusMaintenance, VehicleStatusGrounded:
		return true
	default:
		return false
	}
}
