package bookings

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/auth"
	"github.com/quickstay/quickstay-api/internal/domain/models"
)

// Routes returns a router with the booking API endpoints.
// check-availability is public; everything else needs a bearer token,
// and the owner dashboard additionally needs the hotelOwner role.
func Routes(h *Handler, ensurer auth.UserEnsurer, jwtSecret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/check-availability", h.CheckAvailabilityHandler)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Claims(jwtSecret, logger))
		pr.Use(auth.EnsureUser(ensurer, logger))

		pr.Post("/book", h.BookHandler)
		pr.Get("/user", h.UserListHandler)

		pr.Group(func(or chi.Router) {
			or.Use(auth.RequireRole(models.RoleHotelOwner))
			or.Get("/hotel", h.HotelListHandler)
		})
	})

	return r
}
