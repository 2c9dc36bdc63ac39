// Package bookings provides the booking API.
//
// Endpoints (mounted at /api/bookings):
//   - POST /check-availability - report whether a room is free for a range
//   - POST /book               - create a booking for the caller
//   - GET  /user               - the caller's bookings
//   - GET  /hotel              - owner dashboard with totals
package bookings

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/auth"
	"github.com/quickstay/quickstay-api/internal/app/system/jsonutil"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

const dateLayout = "2006-01-02"

// BookingStore is the slice of the booking store the handler needs.
type BookingStore interface {
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	OverlapExists(ctx context.Context, roomID primitive.ObjectID, checkIn, checkOut time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByHotel(ctx context.Context, hotelID primitive.ObjectID) ([]models.Booking, error)
}

// RoomStore resolves the room being booked.
type RoomStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Room, error)
}

// HotelStore resolves the caller's hotel for the owner dashboard.
type HotelStore interface {
	GetByOwner(ctx context.Context, owner string) (*models.Hotel, error)
}

// Handler handles booking API requests.
type Handler struct {
	bookings BookingStore
	rooms    RoomStore
	hotels   HotelStore
	logger   *zap.Logger
	verbose  bool
}

// NewHandler creates a new bookings Handler.
func NewHandler(bookings BookingStore, rooms RoomStore, hotels HotelStore, logger *zap.Logger, verbose bool) *Handler {
	return &Handler{
		bookings: bookings,
		rooms:    rooms,
		hotels:   hotels,
		logger:   logger,
		verbose:  verbose,
	}
}

type stayRequest struct {
	Room     string `json:"room"`
	CheckIn  string `json:"checkInDate"`
	CheckOut string `json:"checkOutDate"`
	Guests   int    `json:"guests"`
}

// parseStay validates the shared room/date fields of a request body.
func parseStay(in stayRequest) (roomID primitive.ObjectID, checkIn, checkOut time.Time, err error) {
	roomID, err = primitive.ObjectIDFromHex(in.Room)
	if err != nil {
		return roomID, checkIn, checkOut, errors.New("room must be a valid id")
	}
	checkIn, err = time.Parse(dateLayout, in.CheckIn)
	if err != nil {
		return roomID, checkIn, checkOut, errors.New("checkInDate must be YYYY-MM-DD")
	}
	checkOut, err = time.Parse(dateLayout, in.CheckOut)
	if err != nil {
		return roomID, checkIn, checkOut, errors.New("checkOutDate must be YYYY-MM-DD")
	}
	if !checkIn.Before(checkOut) {
		return roomID, checkIn, checkOut, errors.New("checkInDate must be before checkOutDate")
	}
	return roomID, checkIn, checkOut, nil
}

// CheckAvailabilityHandler handles POST /api/bookings/check-availability.
//
// Response (200 OK):
//
//	{"success":true,"isAvailable":true}
func (h *Handler) CheckAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var in stayRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.ValidationError(w, "Invalid JSON payload")
		return
	}
	roomID, checkIn, checkOut, err := parseStay(in)
	if err != nil {
		jsonutil.ValidationError(w, err.Error())
		return
	}

	taken, err := h.bookings.OverlapExists(r.Context(), roomID, checkIn, checkOut)
	if err != nil {
		h.logger.Error("availability check failed", zap.String("room_id", in.Room), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	jsonutil.JSON(w, http.StatusOK, map[string]any{"success": true, "isAvailable": !taken})
}

// BookHandler handles POST /api/bookings/book.
//
// The total price is computed server-side from the room's nightly rate;
// the availability re-check and insert keep double bookings out for the
// common case.
//
// Response (200 OK):
//
//	{"success":true,"message":"Booking created successfully"}
func (h *Handler) BookHandler(w http.ResponseWriter, r *http.Request) {
	sub := auth.Identity(r.Context())
	if sub == "" {
		jsonutil.Unauthorized(w, "Missing identity")
		return
	}

	var in stayRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.ValidationError(w, "Invalid JSON payload")
		return
	}
	roomID, checkIn, checkOut, err := parseStay(in)
	if err != nil {
		jsonutil.ValidationError(w, err.Error())
		return
	}
	if in.Guests <= 0 {
		jsonutil.ValidationError(w, "guests must be at least 1")
		return
	}

	room, err := h.rooms.GetByID(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.ErrorDetail(w, http.StatusNotFound, "Not found", "Room not found")
			return
		}
		h.logger.Error("room lookup failed", zap.String("room_id", in.Room), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	taken, err := h.bookings.OverlapExists(r.Context(), roomID, checkIn, checkOut)
	if err != nil {
		h.logger.Error("availability check failed", zap.String("room_id", in.Room), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}
	if taken {
		jsonutil.ErrorDetail(w, http.StatusConflict, "Conflict", "Room is not available for the selected dates")
		return
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	_, err = h.bookings.Create(r.Context(), models.Booking{
		UserID:        sub,
		RoomID:        room.ID,
		HotelID:       room.HotelID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        in.Guests,
		TotalPrice:    room.PriceNight * float64(nights),
		PaymentMethod: models.PayAtHotel,
	})
	if err != nil {
		h.logger.Error("booking create failed", zap.String("room_id", in.Room), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	jsonutil.Message(w, "Booking created successfully")
}

// UserListHandler handles GET /api/bookings/user.
func (h *Handler) UserListHandler(w http.ResponseWriter, r *http.Request) {
	sub := auth.Identity(r.Context())
	if sub == "" {
		jsonutil.Unauthorized(w, "Missing identity")
		return
	}
	list, err := h.bookings.ListByUser(r.Context(), sub)
	if err != nil {
		h.logger.Error("user bookings list failed", zap.String("user", sub), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}
	jsonutil.List(w, len(list), list)
}

// HotelListHandler handles GET /api/bookings/hotel.
//
// Response (200 OK):
//
//	{"success":true,"dashboardData":{"bookings":[...],"totalBookings":N,"totalRevenue":R}}
func (h *Handler) HotelListHandler(w http.ResponseWriter, r *http.Request) {
	owner := auth.Identity(r.Context())
	if owner == "" {
		jsonutil.Unauthorized(w, "Missing identity")
		return
	}
	hotel, err := h.hotels.GetByOwner(r.Context(), owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.ErrorDetail(w, http.StatusNotFound, "Not found", "No hotel registered for this account")
			return
		}
		h.logger.Error("owner hotel lookup failed", zap.String("owner", owner), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	list, err := h.bookings.ListByHotel(r.Context(), hotel.ID)
	if err != nil {
		h.logger.Error("hotel bookings list failed", zap.String("hotel_id", hotel.ID.Hex()), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	var revenue float64
	for _, b := range list {
		revenue += b.TotalPrice
	}

	jsonutil.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"dashboardData": map[string]any{
			"bookings":      list,
			"totalBookings": len(list),
			"totalRevenue":  revenue,
		},
	})
}
