// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	bookingsfeature "github.com/quickstay/quickstay-api/internal/app/features/bookings"
	healthfeature "github.com/quickstay/quickstay-api/internal/app/features/health"
	hotelsfeature "github.com/quickstay/quickstay-api/internal/app/features/hotels"
	roomsfeature "github.com/quickstay/quickstay-api/internal/app/features/rooms"
	usersfeature "github.com/quickstay/quickstay-api/internal/app/features/users"
	webhooksfeature "github.com/quickstay/quickstay-api/internal/app/features/webhooks"
	bookingstore "github.com/quickstay/quickstay-api/internal/app/store/bookings"
	hotelstore "github.com/quickstay/quickstay-api/internal/app/store/hotels"
	roomstore "github.com/quickstay/quickstay-api/internal/app/store/rooms"
	userstore "github.com/quickstay/quickstay-api/internal/app/store/users"
	"github.com/quickstay/quickstay-api/internal/app/system/apicors"
	"github.com/quickstay/quickstay-api/internal/app/system/cache"
	"github.com/quickstay/quickstay-api/internal/app/system/dbstate"
	"github.com/quickstay/quickstay-api/internal/app/system/jsonutil"
	"github.com/quickstay/quickstay-api/internal/app/system/ratelimit"
	"github.com/quickstay/quickstay-api/internal/app/system/requestlog"
)

// Deps carries everything BuildRouter needs, so tests can swap in a
// stub state reader or an in-memory cache.
type Deps struct {
	Cfg     *Config
	Logger  *zap.Logger
	Manager *dbstate.Manager
	Cache   *cache.Cache
}

// BuildRouter assembles the HTTP handler tree.
//
// Layout:
//   - probe endpoints live outside the availability gate
//     (Prometheus has its own listener, see cmd/quickstay)
//   - everything under /api except /api/health sits behind the gate,
//     so a down database answers 503 before any handler or store code
//     runs
func BuildRouter(d Deps) http.Handler {
	cfg, logger := d.Cfg, d.Logger
	db := d.Manager.Database()

	users := userstore.New(db)
	hotels := hotelstore.New(db)
	rooms := roomstore.New(db)
	bookings := bookingstore.New(db)

	verbose := cfg.IsDevelopment()

	healthHandler := healthfeature.NewHandler(d.Manager, cfg.Env, logger)
	hotelsHandler := hotelsfeature.NewHandler(hotels, users, d.Cache, logger, verbose)
	usersHandler := usersfeature.NewHandler(users, logger, verbose)
	roomsHandler := roomsfeature.NewHandler(rooms, hotels, d.Cache, logger, verbose)
	bookingsHandler := bookingsfeature.NewHandler(bookings, rooms, hotels, logger, verbose)
	webhooksHandler := webhooksfeature.NewHandler(bookings, users,
		cfg.StripeWebhookSecret, cfg.ClerkWebhookSecret, logger)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(requestlog.Metrics)
	r.Use(requestlog.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(apicors.Middleware())

	healthfeature.MountRootEndpoints(r, healthHandler)

	r.Route("/api", func(api chi.Router) {
		api.Use(ratelimit.Middleware(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))

		// Reachable while the database is down.
		api.Mount("/health", healthfeature.Routes(healthHandler))

		// Every data route sits behind the gate. Webhooks included:
		// providers retry on 503, so gating them loses nothing.
		api.Group(func(g chi.Router) {
			g.Use(dbstate.Require(d.Manager))
			webhooksfeature.Mount(g, webhooksHandler)
			g.Mount("/hotels", hotelsfeature.Routes(hotelsHandler, users, cfg.JWTSecret, logger))
			g.Mount("/user", usersfeature.Routes(usersHandler, users, cfg.JWTSecret, logger))
			g.Mount("/rooms", roomsfeature.Routes(roomsHandler, users, cfg.JWTSecret, logger))
			g.Mount("/bookings", bookingsfeature.Routes(bookingsHandler, users, cfg.JWTSecret, logger))
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		jsonutil.Error(w, http.StatusNotFound, "Route not found")
	})

	return r
}
