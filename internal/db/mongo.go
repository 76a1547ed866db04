package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection    = "users"
	BookingsCollection = "bookings"
	VehiclesCollection = "vehicles"
	TripsCollection    = "trips"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
// A failure here is fatal at startup; the server never runs degraded.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the unique indexes that back the uniqueness
// invariants: user email, booking tracking code, vehicle code, trip code.
// Code generation is probabilistic; these indexes are the authoritative
// backstop.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	indexes := map[string]mongo.IndexModel{
		UsersCollection:    unique("email"),
		BookingsCollection: unique("tracking_code"),
		VehiclesCollection: unique("vehicle_code"),
		TripsCollection:    unique("trip_code"),
	}

	for coll, model := range indexes {
		if _, err := database.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", coll, err)
		}
	}
	return nil
}

// IsDup reports whether err is a MongoDB duplicate-key error
func IsDup(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err means no matching document
func IsNotFound(err error) bool {
	return err == mongo.ErrNoDocuments
}
