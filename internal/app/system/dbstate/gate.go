// internal/app/system/dbstate/gate.go
package dbstate

import (
	"encoding/json"
	"net/http"

	"github.com/quickstay/quickstay-api/internal/app/system/metrics"
)

// StateReader is the read-only view of the Manager the gate and the
// health endpoint consume. Narrow so tests can substitute a fixed state.
type StateReader interface {
	State() State
}

// Require returns middleware that short-circuits with 503 when the
// connection is not ready. It runs before any handler-local validation,
// so a down database is reported identically on every data-backed route.
// No retry or queueing happens here; clients retry per HTTP semantics.
func Require(sr StateReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if st := sr.State(); st != Connected {
				metrics.GateRejections.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":           "Database not connected",
					"connectionState": st.String(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
