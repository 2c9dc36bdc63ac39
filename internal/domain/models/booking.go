// internal/domain/models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking records a stay reserved by a user.
//
// TotalPrice is computed at creation time as nights x the room's
// price-per-night; it is not recomputed if the room price later changes.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference string             `bson:"reference" json:"reference"`
	UserID    string             `bson:"user_id" json:"user"`
	RoomID    primitive.ObjectID `bson:"room_id" json:"room"`
	HotelID   primitive.ObjectID `bson:"hotel_id" json:"hotel"`

	CheckIn  time.Time `bson:"check_in" json:"checkInDate"`
	CheckOut time.Time `bson:"check_out" json:"checkOutDate"`
	Guests   int       `bson:"guests" json:"guests"`

	TotalPrice    float64 `bson:"total_price" json:"totalPrice"`
	Status        string  `bson:"status" json:"status"`
	PaymentMethod string  `bson:"payment_method" json:"paymentMethod"`
	IsPaid        bool    `bson:"is_paid" json:"isPaid"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Booking statuses
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Payment methods
const (
	PayAtHotel = "Pay At Hotel"
	PayStripe  = "Stripe"
)
