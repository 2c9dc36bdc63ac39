// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - ClerkID / clerkID / clerk_id: The external identity provider's subject

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickstay/quickstay-api/internal/app/system/metrics"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureExists returns the user record for clerkID, creating a guest
// record if none exists yet. The upsert is atomic, so two concurrent
// first requests from the same identity still produce one record.
func (s *Store) EnsureExists(ctx context.Context, clerkID string) (*models.User, error) {
	now := time.Now().UTC()
	filter := bson.M{"clerk_id": clerkID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"clerk_id":               clerkID,
			"role":                   models.RoleGuest,
			"recent_searched_cities": []string{},
			"created_at":             now,
			"updated_at":             now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u)
	metrics.ObserveStore("users", "ensure_exists", err)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByClerkID looks up a user by external identity.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"clerk_id": clerkID}).Decode(&u)
	metrics.ObserveStore("users", "get_by_clerk_id", err)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetRole updates a user's role, e.g. the hotelOwner promotion after a
// hotel registration.
func (s *Store) SetRole(ctx context.Context, clerkID, role string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}},
	)
	metrics.ObserveStore("users", "set_role", err)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// StoreRecentSearch records a searched city most-recent-first, deduped
// and capped at models.MaxRecentSearchedCities.
//
// The pull and push cannot share one update document (same field path),
// so this is two updates. Interleaving with a concurrent search only
// costs a transient duplicate in the list, which the next push prunes.
func (s *Store) StoreRecentSearch(ctx context.Context, clerkID, city string) error {
	filter := bson.M{"clerk_id": clerkID}

	_, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"recent_searched_cities": city},
	})
	if err != nil {
		metrics.ObserveStore("users", "store_recent_search", err)
		return err
	}

	_, err = s.c.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"recent_searched_cities": bson.M{
			"$each":     []string{city},
			"$position": 0,
			"$slice":    models.MaxRecentSearchedCities,
		}},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	metrics.ObserveStore("users", "store_recent_search", err)
	return err
}

// UpsertProfile syncs profile fields delivered by the identity
// provider's user.created / user.updated webhooks.
func (s *Store) UpsertProfile(ctx context.Context, clerkID, email, username, image string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{
			"$set": bson.M{
				"email":      email,
				"username":   username,
				"image":      image,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"clerk_id":               clerkID,
				"role":                   models.RoleGuest,
				"recent_searched_cities": []string{},
				"created_at":             now,
			},
		},
		options.Update().SetUpsert(true),
	)
	metrics.ObserveStore("users", "upsert_profile", err)
	return err
}

// DeleteByClerkID removes a user record, for the provider's
// user.deleted webhook. Deleting an absent user is not an error.
func (s *Store) DeleteByClerkID(ctx context.Context, clerkID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"clerk_id": clerkID})
	metrics.ObserveStore("users", "delete_by_clerk_id", err)
	return err
}
