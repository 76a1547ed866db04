package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cargolink/cargo-backend/internal/config"
	"github.com/cargolink/cargo-backend/internal/db"
	"github.com/cargolink/cargo-backend/internal/httpjson"
	"github.com/cargolink/cargo-backend/internal/models"
)

// TripHandler handles trip requests
type TripHandler struct {
	trips    db.TripCollection
	vehicles db.VehicleCollection
	users    db.UserCollection
	bookings db.BookingCollection
	cfg      *config.Config
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips db.TripCollection, vehicles db.VehicleCollection, users db.UserCollection, bookings db.BookingCollection, cfg *config.Config) *TripHandler {
	return &TripHandler{
		trips:    trips,
		vehicles: vehicles,
		users:    users,
		bookings: bookings,
		cfg:      cfg,
	}
}

func generateTripCode() string {
	return fmt.Sprintf("TRP-%d", time.Now().UnixMilli())
}

// Create creates a trip linking a vehicle, drivers and bookings. By default
// the referenced ids are linked without existence checks; with
// StrictReferences enabled a dangling reference is rejected.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(req.VehicleID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}
	driverID, err := primitive.ObjectIDFromHex(req.DriverID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid driver id")
		return
	}

	var coDriverID *primitive.ObjectID
	if req.CoDriverID != "" {
		id, err := primitive.ObjectIDFromHex(req.CoDriverID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid co-driver id")
			return
		}
		coDriverID = &id
	}

	bookingIDs := make([]primitive.ObjectID, 0, len(req.Bookings))
	for _, raw := range req.Bookings {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid booking id")
			return
		}
		bookingIDs = append(bookingIDs, id)
	}

	if h.cfg.StrictReferences {
		if msg := h.checkReferences(r.Context(), vehicleID, driverID, coDriverID, bookingIDs); msg != "" {
			httpjson.Error(w, http.StatusBadRequest, msg)
			return
		}
	}

	now := time.Now()
	trip := models.Trip{
		ID:              primitive.NewObjectID(),
		TripCode:        generateTripCode(),
		VehicleID:       vehicleID,
		DriverID:        driverID,
		CoDriverID:      coDriverID,
		BookingIDs:      bookingIDs,
		Route:           req.Route,
		Status:          models.TripStatusScheduled,
		PermitID:        req.PermitID,
		TaxPayment:      req.TaxPayment,
		DeliveryReceipt: req.DeliveryReceipt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = h.trips.InsertTrip(r.Context(), trip)
	if db.IsDup(err) {
		// Millisecond trip codes can collide under load
		trip.TripCode = fmt.Sprintf("%s-%d", generateTripCode(), time.Now().UnixNano()%1000)
		err = h.trips.InsertTrip(r.Context(), trip)
	}
	if err != nil {
		log.WithError(err).Error("failed to insert trip")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusCreated, map[string]models.Trip{"trip": trip})
}

// checkReferences verifies that every referenced document exists. Returns an
// error message naming the first dangling reference, or "".
func (h *TripHandler) checkReferences(ctx context.Context, vehicleID, driverID primitive.ObjectID, coDriverID *primitive.ObjectID, bookingIDs []primitive.ObjectID) string {
	if _, err := h.vehicles.FindVehicleByID(ctx, vehicleID.Hex()); err != nil {
		return "Dangling reference: vehicle " + vehicleID.Hex()
	}
	if _, err := h.users.FindUserByID(ctx, driverID.Hex()); err != nil {
		return "Dangling reference: driver " + driverID.Hex()
	}
	if coDriverID != nil {
		if _, err := h.users.FindUserByID(ctx, coDriverID.Hex()); err != nil {
			return "Dangling reference: co-driver " + coDriverID.Hex()
		}
	}
	for _, id := range bookingIDs {
		if _, err := h.bookings.FindBookingByID(ctx, id.Hex()); err != nil {
			return "Dangling reference: booking " + id.Hex()
		}
	}
	return ""
}

// List returns all trips with vehicle, drivers and bookings resolved for
// display, newest first. Dangling references simply resolve to nothing.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.FindTrips(r.Context(), bson.M{})
	if err != nil {
		log.WithError(err).Error("failed to list trips")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	views := make([]models.TripView, 0, len(trips))
	for _, trip := range trips {
		views = append(views, h.resolve(r.Context(), trip))
	}

	httpjson.Write(w, http.StatusOK, views)
}

func (h *TripHandler) resolve(ctx context.Context, trip models.Trip) models.TripView {
	view := models.TripView{Trip: trip}

	if vehicle, err := h.vehicles.FindVehicleByID(ctx, trip.VehicleID.Hex()); err == nil {
		view.Vehicle = vehicle
	}
	if driver, err := h.users.FindUserByID(ctx, trip.DriverID.Hex()); err == nil {
		view.Driver = driver
	}
	if trip.CoDriverID != nil {
		if coDriver, err := h.users.FindUserByID(ctx, trip.CoDriverID.Hex()); err == nil {
			view.CoDriver = coDriver
		}
	}
	for _, id := range trip.BookingIDs {
		if booking, err := h.bookings.FindBookingByID(ctx, id.Hex()); err == nil {
			view.ResolvedBookings = append(view.ResolvedBookings, *booking)
		}
	}

	return view
}

// UpdateStatus updates a trip's status. FuelUsed and distance are
// overwritten whenever they are present in the request.
func (h *TripHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTripStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !models.IsValidTripStatus(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid trip status")
		return
	}

	id := r.PathValue("id")
	trip, err := h.trips.FindTripByID(r.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			httpjson.Error(w, http.StatusNotFound, "Trip not found")
			return
		}
		log.WithError(err).Error("failed to find trip")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	trip.Status = req.Status
	if req.FuelUsed != nil {
		trip.FuelUsed = *req.FuelUsed
	}
	if req.Distance != nil {
		trip.Distance = *req.Distance
	}
	trip.UpdatedAt = time.Now()

	if err := h.trips.UpdateTrip(r.Context(), id, *trip); err != nil {
		if db.IsNotFound(err) {
			httpjson.Error(w, http.StatusNotFound, "Trip not found")
			return
		}
		log.WithError(err).Error("failed to update trip")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]*models.Trip{"trip": trip})
}
