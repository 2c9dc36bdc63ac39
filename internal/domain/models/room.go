// internal/domain/models/room.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room is a bookable unit belonging to a hotel.
type Room struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HotelID     primitive.ObjectID `bson:"hotel_id" json:"hotel"`
	RoomType    string             `bson:"room_type" json:"roomType"`
	PriceNight  float64            `bson:"price_per_night" json:"pricePerNight"`
	Amenities   []string           `bson:"amenities" json:"amenities"`
	Images      []string           `bson:"images" json:"images"`
	IsAvailable bool               `bson:"is_available" json:"isAvailable"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Room types offered by the original catalog. Free-form values are
// accepted; these are the ones the frontend presents.
const (
	RoomTypeSingle = "Single Bed"
	RoomTypeDouble = "Double Bed"
	RoomTypeLuxury = "Luxury Room"
	RoomTypeSuite  = "Family Suite"
)
