// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickstay/quickstay-api/internal/app/system/metrics"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

const listLimit = 200

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("rooms")}
}

// Create inserts a room for a hotel.
func (s *Store) Create(ctx context.Context, r models.Room) (models.Room, error) {
	r.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, r)
	metrics.ObserveStore("rooms", "create", err)
	if err != nil {
		return models.Room{}, err
	}
	return r, nil
}

// GetByID loads a room.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	var r models.Room
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	metrics.ObserveStore("rooms", "get_by_id", err)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListAvailable returns bookable rooms, newest first.
func (s *Store) ListAvailable(ctx context.Context) ([]models.Room, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(listLimit)

	cur, err := s.c.Find(ctx, bson.M{"is_available": true}, opts)
	metrics.ObserveStore("rooms", "list_available", err)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

// ListByHotel returns every room of one hotel, for the owner dashboard.
func (s *Store) ListByHotel(ctx context.Context, hotelID primitive.ObjectID) ([]models.Room, error) {
	cur, err := s.c.Find(ctx, bson.M{"hotel_id": hotelID})
	metrics.ObserveStore("rooms", "list_by_hotel", err)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

// ToggleAvailability flips is_available for a room, scoped to the
// owner's hotel so one owner cannot toggle another's rooms.
// Returns mongo.ErrNoDocuments when the room is not theirs.
func (s *Store) ToggleAvailability(ctx context.Context, roomID, hotelID primitive.ObjectID) error {
	// $not against the current value flips the boolean server-side.
	update := bson.A{bson.M{"$set": bson.M{
		"is_available": bson.M{"$not": "$is_available"},
		"updated_at":   time.Now().UTC(),
	}}}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": roomID, "hotel_id": hotelID}, update)
	metrics.ObserveStore("rooms", "toggle_availability", err)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
