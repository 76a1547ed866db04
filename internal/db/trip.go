package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cargolink/cargo-backend/internal/models"
)

// TripCollection defines the interface for trip database operations
type TripCollection interface {
	InsertTrip(ctx context.Context, trip models.Trip) error
	FindTrips(ctx context.Context, filter bson.M) ([]models.Trip, error)
	FindTripByID(ctx context.Context, id string) (*models.Trip, error)
	UpdateTrip(ctx context.Context, id string, trip models.Trip) error
	CountTrips(ctx context.Context) (int64, error)
}

// MongoTripCollection implements TripCollection for MongoDB
type MongoTripCollection struct {
	Collection *mongo.Collection
}

// InsertTrip inserts a trip record into the collection
func (c *MongoTripCollection) InsertTrip(ctx context.Context, trip models.Trip) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, trip)
	return err
}

// FindTrips queries trips matching filter, newest first
func (c *MongoTripCollection) FindTrips(ctx context.Context, filter bson.M) ([]models.Trip, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trips := []models.Trip{}
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// FindTripByID finds a trip by its ID
func (c *MongoTripCollection) FindTripByID(ctx context.Context, id string) (*models.Trip, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var trip models.Trip
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&trip)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// UpdateTrip updates a trip by its ID, bumping updated_at
func (c *MongoTripCollection) UpdateTrip(ctx context.Context, id string, trip models.Trip) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	trip.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": trip})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountTrips counts all trips
func (c *MongoTripCollection) CountTrips(ctx context.Context) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, bson.M{})
}
