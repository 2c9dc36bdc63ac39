package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/auth"
)

// Routes returns a router with the user profile endpoints. Every route
// requires a bearer token; the profile is created on first contact.
func Routes(h *Handler, ensurer auth.UserEnsurer, jwtSecret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.Claims(jwtSecret, logger))
	r.Use(auth.EnsureUser(ensurer, logger))

	r.Get("/", h.GetHandler)
	r.Post("/store-recent-search", h.StoreRecentSearchHandler)

	return r
}
