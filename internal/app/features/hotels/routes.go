package hotels

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/auth"
)

// Routes returns a router with the hotel API endpoints.
//
// When mounted at /api/hotels:
//   - POST /api/hotels - register a hotel (requires a bearer token)
//   - GET  /api/hotels - public listing
func Routes(h *Handler, ensurer auth.UserEnsurer, jwtSecret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListHandler)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Claims(jwtSecret, logger))
		pr.Use(auth.EnsureUser(ensurer, logger))
		pr.Post("/", h.RegisterHandler)
	})

	return r
}
