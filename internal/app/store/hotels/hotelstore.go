// internal/app/store/hotels/hotelstore.go
package hotelstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickstay/quickstay-api/internal/app/system/metrics"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

// ErrDuplicateOwner is returned when the owner already has a registered
// hotel. Backed by the unique owner index, not a lookup.
var ErrDuplicateOwner = errors.New("a hotel is already registered for this owner")

// DefaultListLimit bounds GET /api/hotels when the caller does not ask
// for a specific page size; MaxListLimit caps what they can ask for.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("hotels")}
}

// Register inserts a new hotel. The unique owner index turns a second
// registration for the same identity into ErrDuplicateOwner regardless
// of interleaving.
func (s *Store) Register(ctx context.Context, h models.Hotel) (models.Hotel, error) {
	h.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, h)
	metrics.ObserveStore("hotels", "register", err)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Hotel{}, ErrDuplicateOwner
		}
		return models.Hotel{}, err
	}
	return h, nil
}

// GetByOwner loads the hotel registered by an identity.
// Returns mongo.ErrNoDocuments if the identity owns no hotel.
func (s *Store) GetByOwner(ctx context.Context, owner string) (*models.Hotel, error) {
	var h models.Hotel
	err := s.c.FindOne(ctx, bson.M{"owner": owner}).Decode(&h)
	metrics.ObserveStore("hotels", "get_by_owner", err)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns hotels newest first, bounded by limit.
func (s *Store) List(ctx context.Context, limit int64) ([]models.Hotel, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	metrics.ObserveStore("hotels", "list", err)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var hotels []models.Hotel
	if err := cur.All(ctx, &hotels); err != nil {
		return nil, err
	}
	if hotels == nil {
		hotels = []models.Hotel{}
	}
	return hotels, nil
}

// Delete removes a hotel by id. Used as the compensating action when the
// owner-role promotion after Register fails.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	metrics.ObserveStore("hotels", "delete", err)
	return err
}
