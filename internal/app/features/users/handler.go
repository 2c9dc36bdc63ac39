// Package users provides the authenticated user profile API.
//
// Endpoints (mounted at /api/user):
//   - GET  /                     - the caller's role and recent searches
//   - POST /store-recent-search  - remember a searched city
package users

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/auth"
	"github.com/quickstay/quickstay-api/internal/app/system/jsonutil"
	"github.com/quickstay/quickstay-api/internal/app/system/sanitize"
)

// UserStore is the slice of the user store the handler needs.
type UserStore interface {
	StoreRecentSearch(ctx context.Context, clerkID, city string) error
}

// Handler handles user profile API requests.
type Handler struct {
	users   UserStore
	logger  *zap.Logger
	verbose bool
}

// NewHandler creates a new users Handler.
func NewHandler(users UserStore, logger *zap.Logger, verbose bool) *Handler {
	return &Handler{users: users, logger: logger, verbose: verbose}
}

// GetHandler handles GET /api/user.
//
// Response (200 OK):
//
//	{"success":true,"role":"guest","recentSearchedCities":[...]}
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	u := auth.CurrentUser(r.Context())
	if u == nil {
		jsonutil.Unauthorized(w, "Missing user profile")
		return
	}
	cities := u.RecentSearchedCities
	if cities == nil {
		cities = []string{}
	}
	jsonutil.JSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"role":                 u.Role,
		"recentSearchedCities": cities,
	})
}

// StoreRecentSearchHandler handles POST /api/user/store-recent-search.
// The store keeps only the most recent cities, newest first.
//
// Request body:
//
//	{"recentSearchedCity":"Dubai"}
func (h *Handler) StoreRecentSearchHandler(w http.ResponseWriter, r *http.Request) {
	sub := auth.Identity(r.Context())
	if sub == "" {
		jsonutil.Unauthorized(w, "Missing identity")
		return
	}

	var in struct {
		City string `json:"recentSearchedCity"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.ValidationError(w, "Invalid JSON payload")
		return
	}
	in.City = sanitize.Text(in.City)
	if in.City == "" {
		jsonutil.ValidationError(w, "recentSearchedCity is required")
		return
	}

	if err := h.users.StoreRecentSearch(r.Context(), sub, in.City); err != nil {
		h.logger.Error("store recent search failed", zap.String("user", sub), zap.Error(err))
		jsonutil.StoreError(w, err, h.verbose)
		return
	}

	jsonutil.Message(w, "City added")
}
