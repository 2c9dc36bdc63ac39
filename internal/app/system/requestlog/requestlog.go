// Package requestlog provides structured request logging and per-request
// metrics middleware.
package requestlog

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/metrics"
)

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// status normalizes an implicit WriteHeader to 200.
func status(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

// Logger returns middleware that logs one line per request.
func Logger(l *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			l.Info("http_request",
				zap.String("route", routePattern(r)),
				zap.String("method", r.Method),
				zap.Int("status", status(ww)),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", remoteIP(r)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}

// Metrics returns middleware that feeds the Prometheus HTTP collectors.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		metrics.ObserveHTTP(routePattern(r), r.Method, status(ww), time.Since(start))
	})
}

// remoteIP picks the first X-Forwarded-For IP, else X-Real-IP, else the
// RemoteAddr host.
func remoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
