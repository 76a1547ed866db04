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

// BookingCollection defines the interface for booking database operations
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) error
	FindBookings(ctx context.Context, filter bson.M) ([]models.Booking, error)
	FindRecentBookings(ctx context.Context, limit int64) ([]models.Booking, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id string, booking models.Booking) error
	CountBookings(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

// MongoBookingCollection implements BookingCollection for MongoDB
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking inserts a booking record into the collection
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, booking)
	return err
}

// FindBookings queries bookings matching filter, newest first
func (c *MongoBookingCollection) FindBookings(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindRecentBookings returns the newest bookings up to limit
func (c *MongoBookingCollection) FindRecentBookings(ctx context.Context, limit int64) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindBookingByID finds a booking by its ID
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var booking models.Booking
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateBooking updates a booking by its ID, bumping updated_at
func (c *MongoBookingCollection) UpdateBooking(ctx context.Context, id string, booking models.Booking) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	booking.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": booking})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountBookings counts all bookings
func (c *MongoBookingCollection) CountBookings(ctx context.Context) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, bson.M{})
}

// TotalRevenue sums price over bookings whose payment status is "paid".
// Returns 0 when there are none.
func (c *MongoBookingCollection) TotalRevenue(ctx context.Context) (float64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": models.PaymentStatusPaid}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$price"},
		}}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
