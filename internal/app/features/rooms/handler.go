// Package rooms provides the room listing and management API.
//
// Endpoints (mounted at /api/rooms):
//   - GET  /                     - public listing of available rooms
//   - POST /                     - create a room in the owner's hotel
//   - GET  /owner                - rooms of the caller's hotel
//   - POST /toggle-availability  - flip a room's availability
package rooms

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/auth"
	"github.com/quickstay/quickstay-api/internal/app/system/cache"
	"github.com/quickstay/quickstay-api/internal/app/system/jsonutil"
	"github.com/quickstay/quickstay-api/internal/app/system/sanitize"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

const listCacheKey = "rooms:available"

// RoomStore is the slice of the room store the handler needs.
type RoomStore interface {
	Create(ctx context.Context, room models.Room) (models.Room, error)
	ListAvailable(ctx context.Context) ([]models.Room, error)
	ListByHotel(ctx context.Context, hotelID primitive.ObjectID) ([]models.Room, error)
	ToggleAvailability(ctx context.Context, roomID, hotelID primitive.ObjectID) error
}

// HotelStore resolves the caller's hotel.
type HotelStore interface {
	GetByOwner(ctx context.Context, owner string) (*models.Hotel, error)
}

// Handler handles room API requests.
type Handler struct {
	rooms   RoomStore
	hotels  HotelStore
	cache   *cache.Cache
	logger  *zap.Logger
	verbose bool
}

// NewHandler creates a new rooms Handler.
func NewHandler(rooms RoomStore, hotels HotelStore, c *cache.Cache, logger *zap.Logger, verbose bool) *Handler {
	return &Handler{rooms: rooms, hotels: hotels, cache: c, logger: logger, verbose: verbose}
}

// ownerHotel resolves the caller's hotel or writes the error response.
func (h *Handler) ownerHotel(w http.ResponseWriter, r *http.Request) (*models.Hotel, bool) {
	owner := auth.Identity(r.Context())
	if owner == "" {
		jsonutil.Unauthorized(w, "Missing identity")
		return nil, false
	}
	hotel, err := h.hotels.GetByOwner(r.Context(), owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.ErrorDetail(w, http.StatusNotFound, "Not found", "No hotel registered for this account")
			return nil, false
		}
		h.logger.Error("owner hotel lookup failed", zap.String("owner", owner), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return nil, false
	}
	return hotel, true
}

// CreateHandler handles POST /api/rooms.
//
// Request body:
//
//	{"roomType":"Double Bed","pricePerNight":120,"amenities":[...],"images":[...]}
//
// Response (200 OK):
//
//	{"success":true,"message":"Room Created Successfully"}
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.ownerHotel(w, r)
	if !ok {
		return
	}

	var in struct {
		RoomType   string   `json:"roomType"`
		PriceNight float64  `json:"pricePerNight"`
		Amenities  []string `json:"amenities"`
		Images     []string `json:"images"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.ValidationError(w, "Invalid JSON payload")
		return
	}

	in.RoomType = sanitize.Text(in.RoomType)
	in.Amenities = sanitize.Slice(in.Amenities)
	if in.RoomType == "" {
		jsonutil.ValidationError(w, "roomType is required")
		return
	}
	if in.PriceNight <= 0 {
		jsonutil.ValidationError(w, "pricePerNight must be greater than zero")
		return
	}

	_, err := h.rooms.Create(r.Context(), models.Room{
		HotelID:     hotel.ID,
		RoomType:    in.RoomType,
		PriceNight:  in.PriceNight,
		Amenities:   in.Amenities,
		Images:      in.Images,
		IsAvailable: true,
	})
	if err != nil {
		h.logger.Error("room create failed", zap.String("hotel_id", hotel.ID.Hex()), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	if err := h.cache.Del(r.Context(), listCacheKey); err != nil {
		h.logger.Warn("room list cache invalidation failed", zap.Error(err))
	}

	jsonutil.Message(w, "Room Created Successfully")
}

// ListHandler handles GET /api/rooms.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var cached []models.Room
	if ok, err := h.cache.Get(r.Context(), listCacheKey, &cached); err != nil {
		h.logger.Warn("room list cache read failed", zap.Error(err))
	} else if ok {
		jsonutil.List(w, len(cached), cached)
		return
	}

	list, err := h.rooms.ListAvailable(r.Context())
	if err != nil {
		h.logger.Error("room list failed", zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	if err := h.cache.Set(r.Context(), listCacheKey, list); err != nil {
		h.logger.Warn("room list cache write failed", zap.Error(err))
	}

	jsonutil.List(w, len(list), list)
}

// OwnerListHandler handles GET /api/rooms/owner.
func (h *Handler) OwnerListHandler(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.ownerHotel(w, r)
	if !ok {
		return
	}
	list, err := h.rooms.ListByHotel(r.Context(), hotel.ID)
	if err != nil {
		h.logger.Error("owner room list failed", zap.String("hotel_id", hotel.ID.Hex()), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}
	jsonutil.List(w, len(list), list)
}

// ToggleHandler handles POST /api/rooms/toggle-availability.
//
// Request body:
//
//	{"roomId":"<object id>"}
func (h *Handler) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	hotel, ok := h.ownerHotel(w, r)
	if !ok {
		return
	}

	var in struct {
		RoomID string `json:"roomId"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.ValidationError(w, "Invalid JSON payload")
		return
	}
	roomID, err := primitive.ObjectIDFromHex(in.RoomID)
	if err != nil {
		jsonutil.ValidationError(w, "roomId must be a valid id")
		return
	}

	if err := h.rooms.ToggleAvailability(r.Context(), roomID, hotel.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.ErrorDetail(w, http.StatusNotFound, "Not found", "Room not found in your hotel")
			return
		}
		h.logger.Error("room toggle failed", zap.String("room_id", in.RoomID), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	if err := h.cache.Del(r.Context(), listCacheKey); err != nil {
		h.logger.Warn("room list cache invalidation failed", zap.Error(err))
	}

	jsonutil.Message(w, "Room availability Updated")
}
