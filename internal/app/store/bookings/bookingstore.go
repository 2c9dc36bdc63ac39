// internal/app/store/bookings/bookingstore.go
package bookingstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickstay/quickstay-api/internal/app/system/metrics"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookings")}
}

// Create inserts a pending booking and assigns it a reference the
// payment provider can echo back in webhooks.
func (s *Store) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.ID = primitive.NewObjectID()
	b.Reference = uuid.NewString()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Status == "" {
		b.Status = models.BookingPending
	}

	_, err := s.c.InsertOne(ctx, b)
	metrics.ObserveStore("bookings", "create", err)
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// OverlapExists reports whether any non-cancelled booking for the room
// overlaps [checkIn, checkOut). Two ranges overlap when each starts
// before the other ends.
func (s *Store) OverlapExists(ctx context.Context, roomID primitive.ObjectID, checkIn, checkOut time.Time) (bool, error) {
	filter := bson.M{
		"room_id":   roomID,
		"status":    bson.M{"$ne": models.BookingCancelled},
		"check_in":  bson.M{"$lt": checkOut},
		"check_out": bson.M{"$gt": checkIn},
	}
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	metrics.ObserveStore("bookings", "overlap_exists", err)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns the user's bookings, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	metrics.ObserveStore("bookings", "list_by_user", err)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Booking{}
	}
	return out, nil
}

// ListByHotel returns a hotel's bookings, newest first, for the owner
// dashboard.
func (s *Store) ListByHotel(ctx context.Context, hotelID primitive.ObjectID) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"hotel_id": hotelID}, opts)
	metrics.ObserveStore("bookings", "list_by_hotel", err)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Booking{}
	}
	return out, nil
}

// MarkPaidByReference confirms a booking after the payment provider
// reports success. Safe to call more than once for the same reference.
func (s *Store) MarkPaidByReference(ctx context.Context, reference string) error {
	update := bson.M{"$set": bson.M{
		"is_paid":        true,
		"status":         models.BookingConfirmed,
		"payment_method": models.PayStripe,
		"updated_at":     time.Now().UTC(),
	}}
	res, err := s.c.UpdateOne(ctx, bson.M{"reference": reference}, update)
	metrics.ObserveStore("bookings", "mark_paid", err)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
