package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cargolink/cargo-backend/internal/config"
	"github.com/cargolink/cargo-backend/internal/db"
	"github.com/cargolink/cargo-backend/internal/httpjson"
	"github.com/cargolink/cargo-backend/internal/models"
)

// VehicleHandler handles fleet vehicle requests
type VehicleHandler struct {
	vehicles db.VehicleCollection
	users    db.UserCollection
	cfg      *config.Config
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles db.VehicleCollection, users db.UserCollection, cfg *config.Config) *VehicleHandler {
	return &VehicleHandler{
		vehicles: vehicles,
		users:    users,
		cfg:      cfg,
	}
}

// Create registers a vehicle in the fleet. The vehicle code must be unique.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VehicleCode == "" {
		httpjson.Error(w, http.StatusBadRequest, "Vehicle code is required")
		return
	}
	if !models.IsValidVehicleType(req.Type) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid vehicle type")
		return
	}
	if req.Capacity < 0 {
		httpjson.Error(w, http.StatusBadRequest, "Capacity must not be negative")
		return
	}

	var assignedDriverID *primitive.ObjectID
	if req.AssignedDriverID != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignedDriverID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid driver id")
			return
		}
		assignedDriverID = &id
	}

	now := time.Now()
	vehicle := models.Vehicle{
		ID:               primitive.NewObjectID(),
		VehicleCode:      req.VehicleCode,
		Type:             req.Type,
		CapacityKg:       req.Capacity,
		Status:           models.VehicleStatusOperating,
		CurrentLocation:  req.CurrentLocation,
		AssignedDriverID: assignedDriverID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.vehicles.InsertVehicle(r.Context(), vehicle); err != nil {
		if db.IsDup(err) {
			httpjson.Error(w, http.StatusBadRequest, "Vehicle code already exists")
			return
		}
		log.WithError(err).Error("failed to insert vehicle")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusCreated, map[string]models.Vehicle{"vehicle": vehicle})
}

// List returns all vehicles with their assigned driver resolved, newest first
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.FindVehicles(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to list vehicles")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	views := make([]models.VehicleView, 0, len(vehicles))
	for _, vehicle := range vehicles {
		view := models.VehicleView{Vehicle: vehicle}
		if vehicle.AssignedDriverID != nil {
			if driver, err := h.users.FindUserByID(r.Context(), vehicle.AssignedDriverID.Hex()); err == nil {
				view.AssignedDriver = driver
			}
		}
		views = append(views, view)
	}

	httpjson.Write(w, http.StatusOK, views)
}

// UpdateStatus updates a vehicle's status and optionally its location. Any
// status is reachable from any status.
func (h *VehicleHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateVehicleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !models.IsValidVehicleStatus(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid vehicle status")
		return
	}

	id := r.PathValue("id")
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			httpjson.Error(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.WithError(err).Error("failed to find vehicle")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	vehicle.Status = req.Status
	if req.CurrentLocation != "" {
		vehicle.CurrentLocation = req.CurrentLocation
	}
	vehicle.UpdatedAt = time.Now()

	if err := h.vehicles.UpdateVehicle(r.Context(), id, *vehicle); err != nil {
		if db.IsNotFound(err) {
			httpjson.Error(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.WithError(err).Error("failed to update vehicle")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]*models.Vehicle{"vehicle": vehicle})
}
