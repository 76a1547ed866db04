package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cargolink/cargo-backend/internal/config"
	"github.com/cargolink/cargo-backend/internal/db"
	"github.com/cargolink/cargo-backend/internal/httpjson"
	"github.com/cargolink/cargo-backend/internal/middleware"
	"github.com/cargolink/cargo-backend/internal/models"
)

// BookingHandler handles cargo booking requests
type BookingHandler struct {
	bookings db.BookingCollection
	cfg      *config.Config
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings db.BookingCollection, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		cfg:      cfg,
	}
}

// generateTrackingCode builds an airway bill code from the current time plus
// a random suffix. Unique with overwhelming probability; the unique index on
// tracking_code is the real guarantee.
func generateTrackingCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("AWB-%d-%s", time.Now().UnixNano(), suffix)
}

// Create creates a booking owned by the calling user. The owner is taken
// from the token claims and never changes afterwards.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CargoDetails.Description == "" {
		httpjson.Error(w, http.StatusBadRequest, "Cargo description is required")
		return
	}
	if req.CargoDetails.Type == "" {
		req.CargoDetails.Type = models.CargoTypeGeneral
	}
	if !models.IsValidCargoType(req.CargoDetails.Type) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid cargo type")
		return
	}
	if req.Route.Origin == "" || req.Route.Destination == "" {
		httpjson.Error(w, http.StatusBadRequest, "Route origin and destination are required")
		return
	}
	if req.Price < 0 {
		httpjson.Error(w, http.StatusBadRequest, "Price must not be negative")
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusForbidden, "Invalid or expired token")
		return
	}

	now := time.Now()
	booking := models.Booking{
		ID:            primitive.NewObjectID(),
		TrackingCode:  generateTrackingCode(),
		UserID:        ownerID,
		CargoDetails:  req.CargoDetails,
		Route:         req.Route,
		Status:        models.BookingStatusPending,
		Price:         req.Price,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = h.bookings.InsertBooking(r.Context(), booking)
	if db.IsDup(err) {
		// Tracking code collision; retry once with a fresh code
		booking.TrackingCode = generateTrackingCode()
		err = h.bookings.InsertBooking(r.Context(), booking)
	}
	if err != nil {
		log.WithError(err).Error("failed to insert booking")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusCreated, map[string]models.Booking{"booking": booking})
}

// List returns bookings visible to the caller: everything for admins, own
// bookings for everyone else. Newest first.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter := bson.M{}
	if claims.Role != models.RoleAdmin {
		ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			httpjson.Error(w, http.StatusForbidden, "Invalid or expired token")
			return
		}
		filter["user_id"] = ownerID
	}

	bookings, err := h.bookings.FindBookings(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("failed to list bookings")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusOK, bookings)
}

// GetByID returns a single booking. Only the owner or an admin may read it.
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	booking, err := h.bookings.FindBookingByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if db.IsNotFound(err) {
			httpjson.Error(w, http.StatusNotFound, "Booking not found")
			return
		}
		log.WithError(err).Error("failed to find booking")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	if claims.Role != models.RoleAdmin && booking.UserID.Hex() != claims.UserID {
		httpjson.Error(w, http.StatusForbidden, "Access denied")
		return
	}

	httpjson.Write(w, http.StatusOK, booking)
}

// UpdateStatus updates a booking's status and optionally its payment status.
// Any authenticated caller may update any booking here; there is no
// ownership check on this path.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !models.IsValidBookingStatus(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid booking status")
		return
	}
	if req.PaymentStatus != "" && !models.IsValidPaymentStatus(req.PaymentStatus) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid payment status")
		return
	}

	id := r.PathValue("id")
	booking, err := h.bookings.FindBookingByID(r.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			httpjson.Error(w, http.StatusNotFound, "Booking not found")
			return
		}
		log.WithError(err).Error("failed to find booking")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	booking.Status = req.Status
	if req.PaymentStatus != "" {
		booking.PaymentStatus = req.PaymentStatus
	}
	booking.UpdatedAt = time.Now()

	if err := h.bookings.UpdateBooking(r.Context(), id, *booking); err != nil {
		if db.IsNotFound(err) {
			httpjson.Error(w, http.StatusNotFound, "Booking not found")
			return
		}
		log.WithError(err).Error("failed to update booking")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]*models.Booking{"booking": booking})
}
