// Package hotels provides the hotel registration and listing API.
//
// Endpoints (mounted at /api/hotels):
//   - POST / - register the caller's hotel and promote them to hotelOwner
//   - GET  / - public listing of registered hotels
package hotels

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	hotelstore "github.com/quickstay/quickstay-api/internal/app/store/hotels"
	"github.com/quickstay/quickstay-api/internal/app/system/auth"
	"github.com/quickstay/quickstay-api/internal/app/system/cache"
	"github.com/quickstay/quickstay-api/internal/app/system/jsonutil"
	"github.com/quickstay/quickstay-api/internal/app/system/sanitize"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

const listCacheKey = "hotels:list"

// HotelStore is the slice of the hotel store the handler needs.
type HotelStore interface {
	Register(ctx context.Context, h models.Hotel) (models.Hotel, error)
	List(ctx context.Context, limit int64) ([]models.Hotel, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore promotes a user after their hotel is registered.
type UserStore interface {
	SetRole(ctx context.Context, clerkID, role string) error
}

// Handler handles hotel API requests.
type Handler struct {
	hotels  HotelStore
	users   UserStore
	cache   *cache.Cache
	logger  *zap.Logger
	verbose bool
}

// NewHandler creates a new hotels Handler. verbose controls whether
// internal error detail reaches response bodies (development only).
func NewHandler(hotels HotelStore, users UserStore, c *cache.Cache, logger *zap.Logger, verbose bool) *Handler {
	return &Handler{
		hotels:  hotels,
		users:   users,
		cache:   c,
		logger:  logger,
		verbose: verbose,
	}
}

// RegisterHandler handles POST /api/hotels.
//
// Request body:
//
//	{"name":"...","address":"...","contact":"...","city":"..."}
//
// Response (200 OK):
//
//	{"success":true,"message":"Hotel Registered Successfully"}
//
// A user may register at most one hotel; a second attempt returns 409.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	owner := auth.Identity(r.Context())
	if owner == "" {
		jsonutil.Unauthorized(w, "Missing identity")
		return
	}

	var in struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Contact string `json:"contact"`
		City    string `json:"city"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.ValidationError(w, "Invalid JSON payload")
		return
	}

	in.Name = sanitize.Text(in.Name)
	in.Address = sanitize.Text(in.Address)
	in.Contact = sanitize.Text(in.Contact)
	in.City = sanitize.Text(in.City)
	if in.Name == "" || in.Address == "" || in.Contact == "" || in.City == "" {
		jsonutil.ValidationError(w, "name, address, contact and city are required")
		return
	}

	hotel, err := h.hotels.Register(r.Context(), models.Hotel{
		Name:    in.Name,
		Address: in.Address,
		Contact: in.Contact,
		City:    in.City,
		Owner:   owner,
	})
	if err != nil {
		if errors.Is(err, hotelstore.ErrDuplicateOwner) {
			jsonutil.ErrorDetail(w, http.StatusConflict, "Conflict", "You have already registered a hotel")
			return
		}
		h.logger.Error("hotel register failed", zap.String("owner", owner), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	// Registration and promotion are two writes; if the promotion
	// fails, remove the hotel again so the two never disagree.
	if err := h.users.SetRole(r.Context(), owner, models.RoleHotelOwner); err != nil {
		h.logger.Error("role promotion failed, rolling back hotel",
			zap.String("owner", owner),
			zap.String("hotel_id", hotel.ID.Hex()),
			zap.Error(err))
		if delErr := h.hotels.Delete(r.Context(), hotel.ID); delErr != nil {
			h.logger.Error("hotel rollback failed", zap.String("hotel_id", hotel.ID.Hex()), zap.Error(delErr))
		}
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	if err := h.cache.Del(r.Context(), listCacheKey); err != nil {
		h.logger.Warn("hotel list cache invalidation failed", zap.Error(err))
	}

	jsonutil.Message(w, "Hotel Registered Successfully")
}

// ListHandler handles GET /api/hotels.
//
// Response (200 OK):
//
//	{"success":true,"count":N,"data":[...]}
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var cached []models.Hotel
	if ok, err := h.cache.Get(r.Context(), listCacheKey, &cached); err != nil {
		h.logger.Warn("hotel list cache read failed", zap.Error(err))
	} else if ok {
		jsonutil.List(w, len(cached), cached)
		return
	}

	list, err := h.hotels.List(r.Context(), hotelstore.DefaultListLimit)
	if err != nil {
		h.logger.Error("hotel list failed", zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	if err := h.cache.Set(r.Context(), listCacheKey, list); err != nil {
		h.logger.Warn("hotel list cache write failed", zap.Error(err))
	}

	jsonutil.List(w, len(list), list)
}
