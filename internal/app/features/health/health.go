// Package health provides the health and probe endpoints.
//
// Endpoints:
//   - GET /api/health - full report including database connection state
//   - /ready, /readyz - readiness probes (database must be connected)
//   - /livez          - liveness probe
//
// /api/health is mounted outside the availability gate so it keeps
// answering while the database is down.
package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/dbstate"
)

// Handler provides health check endpoints.
type Handler struct {
	state       dbstate.StateReader
	environment string
	logger      *zap.Logger
}

// NewHandler creates a new health check Handler.
func NewHandler(state dbstate.StateReader, environment string, logger *zap.Logger) *Handler {
	return &Handler{
		state:       state,
		environment: environment,
		logger:      logger,
	}
}

// Response is the body of GET /api/health.
type Response struct {
	Status      string   `json:"status"`
	Timestamp   string   `json:"timestamp"`
	Environment string   `json:"environment"`
	Database    Database `json:"database"`
}

// Database reports the connection manager's view of MongoDB.
type Database struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
}

// Routes returns a chi.Router with the full health report mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	return r
}

// MountRootEndpoints adds probe endpoints directly on the root router.
// This is the standard convention for Kubernetes probes:
//   - /health - full health report
//   - /ready (or /readyz) - readiness probe
//   - /livez - liveness probe
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/health", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// Check reports overall service health. It always answers 200; the
// database section tells callers whether data routes will work.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	st := h.state.State()
	resp := Response{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: h.environment,
		Database: Database{
			Connected: st == dbstate.Connected,
			State:     st.String(),
		},
	}
	if st != dbstate.Connected {
		resp.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Ready checks if the service is ready to accept data requests.
// Used by Kubernetes readiness probes.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.state.State() != dbstate.Connected {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}
	w.Write([]byte(`{"status":"ready"}`))
}

// Live checks if the service is alive.
// Used by Kubernetes liveness probes.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"alive"}`))
}
