package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/cargolink/cargo-backend/internal/auth"
	"github.com/cargolink/cargo-backend/internal/config"
	"github.com/cargolink/cargo-backend/internal/db"
	"github.com/cargolink/cargo-backend/internal/handlers"
	"github.com/cargolink/cargo-backend/internal/httpjson"
	"github.com/cargolink/cargo-backend/internal/middleware"
	"github.com/cargolink/cargo-backend/pkg/metrics"
)

func main() {
	cfg := config.Load()

	log.SetFormatter(&log.JSONFormatter{})
	if cfg.IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	}

	ctx := context.Background()
	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)
	log.Info("connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	users := &db.MongoUserCollection{Collection: database.Collection(db.UsersCollection)}
	bookings := &db.MongoBookingCollection{Collection: database.Collection(db.BookingsCollection)}
	vehicles := &db.MongoVehicleCollection{Collection: database.Collection(db.VehiclesCollection)}
	trips := &db.MongoTripCollection{Collection: database.Collection(db.TripsCollection)}

	authService := auth.NewService(cfg)
	authMw := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	appMetrics := metrics.NewMetrics("cargo_backend")

	authHandler := handlers.NewAuthHandler(authService, users, cfg)
	bookingHandler := handlers.NewBookingHandler(bookings, cfg)
	tripHandler := handlers.NewTripHandler(trips, vehicles, users, bookings, cfg)
	vehicleHandler := handlers.NewVehicleHandler(vehicles, users, cfg)
	dashboardHandler := handlers.NewDashboardHandler(bookings, trips, vehicles, cfg)

	mux := http.NewServeMux()

	public := rateLimiter.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)
	protected := authMw.Protect

	mux.Handle("POST /api/auth/register", public(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", public(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /api/auth/profile", protected(http.HandlerFunc(authHandler.GetProfile)))
	mux.Handle("PUT /api/auth/profile", protected(http.HandlerFunc(authHandler.UpdateProfile)))

	mux.Handle("POST /api/bookings", protected(http.HandlerFunc(bookingHandler.Create)))
	mux.Handle("GET /api/bookings", protected(http.HandlerFunc(bookingHandler.List)))
	mux.Handle("GET /api/bookings/{id}", protected(http.HandlerFunc(bookingHandler.GetByID)))
	mux.Handle("PUT /api/bookings/{id}/status", protected(http.HandlerFunc(bookingHandler.UpdateStatus)))

	mux.Handle("POST /api/trips", protected(http.HandlerFunc(tripHandler.Create)))
	mux.Handle("GET /api/trips", protected(http.HandlerFunc(tripHandler.List)))
	mux.Handle("PUT /api/trips/{id}/status", protected(http.HandlerFunc(tripHandler.UpdateStatus)))

	mux.Handle("POST /api/vehicles", protected(http.HandlerFunc(vehicleHandler.Create)))
	mux.Handle("GET /api/vehicles", protected(http.HandlerFunc(vehicleHandler.List)))
	mux.Handle("PUT /api/vehicles/{id}/status", protected(http.HandlerFunc(vehicleHandler.UpdateStatus)))

	mux.Handle("GET /api/dashboard/stats", protected(http.HandlerFunc(dashboardHandler.GetStats)))

	mux.Handle("GET /health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("/", httpjson.NotFoundHandler())

	handler := middleware.RequestLogger(middleware.Instrument(appMetrics)(mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	if err := server.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
