// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - ClerkID / clerkID / clerk_id: The external identity provider's subject, trusted as-is

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account synced from the external identity provider.
//
// Identity fields:
//   - ClerkID: the provider's subject claim; unique, never re-verified here
//   - Email / Username / Image: profile fields delivered by provider webhooks
//
// A user record is created lazily (role guest) the first time a previously
// unseen identity makes an authenticated request.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID string             `bson:"clerk_id" json:"clerk_id"`

	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Username string `bson:"username,omitempty" json:"username,omitempty"`
	Image    string `bson:"image,omitempty" json:"image,omitempty"`

	// Role is guest or hotelOwner. Promotion happens when the user
	// registers a hotel.
	Role string `bson:"role" json:"role"`

	// RecentSearchedCities is ordered most-recent-first and capped at
	// MaxRecentSearchedCities entries.
	RecentSearchedCities []string `bson:"recent_searched_cities" json:"recentSearchedCities"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MaxRecentSearchedCities bounds the recent-search list per user.
const MaxRecentSearchedCities = 3

// User roles
const (
	RoleGuest      = "guest"
	RoleHotelOwner = "hotelOwner"
)

// AllRoles returns all valid user roles.
func AllRoles() []string {
	return []string{
		RoleGuest,
		RoleHotelOwner,
	}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
