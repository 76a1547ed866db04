package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/cargolink/cargo-backend/internal/config"
	"github.com/cargolink/cargo-backend/internal/db"
	"github.com/cargolink/cargo-backend/internal/httpjson"
	"github.com/cargolink/cargo-backend/internal/models"
)

const recentBookingsLimit = 10

// DashboardHandler serves the aggregate dashboard payload
type DashboardHandler struct {
	bookings db.BookingCollection
	trips    db.TripCollection
	vehicles db.VehicleCollection
	cfg      *config.Config
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(bookings db.BookingCollection, trips db.TripCollection, vehicles db.VehicleCollection, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		bookings: bookings,
		trips:    trips,
		vehicles: vehicles,
		cfg:      cfg,
	}
}

// GetStats returns counts, paid revenue, the ten newest bookings and the
// trips currently in progress.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bookingCount, err := h.bookings.CountBookings(ctx)
	if err != nil {
		log.WithError(err).Error("failed to count bookings")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	revenue, err := h.bookings.TotalRevenue(ctx)
	if err != nil {
		log.WithError(err).Error("failed to compute revenue")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	tripCount, err := h.trips.CountTrips(ctx)
	if err != nil {
		log.WithError(err).Error("failed to count trips")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	vehicleCount, err := h.vehicles.CountVehicles(ctx)
	if err != nil {
		log.WithError(err).Error("failed to count vehicles")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	recent, err := h.bookings.FindRecentBookings(ctx, recentBookingsLimit)
	if err != nil {
		log.WithError(err).Error("failed to fetch recent bookings")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	active, err := h.trips.FindTrips(ctx, bson.M{"status": models.TripStatusInProgress})
	if err != nil {
		log.WithError(err).Error("failed to fetch active trips")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusOK, models.DashboardResponse{
		Stats: models.DashboardStats{
			TotalBookings: bookingCount,
			TotalRevenue:  revenue,
			TotalTrips:    tripCount,
			TotalVehicles: vehicleCount,
		},
		RecentBookings: recent,
		ActiveTrips:    active,
	})
}
