// Package metrics registers Prometheus collectors for the HTTP surface
// and the store layer, and exposes the /metrics handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quickstay", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quickstay", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quickstay", Name: "store_operations_total", Help: "Document store operations."},
		[]string{"collection", "op", "outcome"}, // outcome: ok|error
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quickstay", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	GateRejections = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "quickstay", Name: "gate_rejections_total", Help: "Requests refused because the store was not connected."},
	)
)

// InitRegistry builds a registry with all application collectors.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StoreOps, CacheEvents, GateRejections)
	return reg
}

// Handler returns the scrape handler for a registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveStore records one store operation.
func ObserveStore(collection, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreOps.WithLabelValues(collection, op, outcome).Inc()
}

// ObserveCache records a cache event: hit, miss, set or del.
func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}
