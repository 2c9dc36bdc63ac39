package rooms

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/auth"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

// Routes returns a router with the room API endpoints. Listing is
// public; management routes require a hotelOwner bearer token.
func Routes(h *Handler, ensurer auth.UserEnsurer, jwtSecret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListHandler)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Claims(jwtSecret, logger))
		pr.Use(auth.EnsureUser(ensurer, logger))
		pr.Use(auth.RequireRole(models.RoleHotelOwner))

		pr.Post("/", h.CreateHandler)
		pr.Get("/owner", h.OwnerListHandler)
		pr.Post("/toggle-availability", h.ToggleHandler)
	})

	return r
}
