// internal/domain/models/hotel.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hotel represents a property registered by a hotel owner.
//
// Owner holds the external identity reference (the identity provider's
// subject claim) of the user that registered the hotel. A unique index on
// owner enforces the one-hotel-per-owner rule at the store level.
type Hotel struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Address string             `bson:"address" json:"address"`
	Contact string             `bson:"contact" json:"contact"`
	City    string             `bson:"city" json:"city"`
	Owner   string             `bson:"owner" json:"owner"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
