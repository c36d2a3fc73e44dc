// Package metrics holds the Prometheus collectors for the reading tracker.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booktracker_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booktracker_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	IdentityLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booktracker_identity_lookups_total",
			Help: "Bearer token resolutions by outcome (ok, invalid, missing)",
		},
		[]string{"result"},
	)

	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booktracker_store_operations_total",
			Help: "Book repository calls by operation and outcome",
		},
		[]string{"operation", "result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordIdentityLookup records the outcome of resolving a bearer token.
func RecordIdentityLookup(result string) {
	IdentityLookupsTotal.WithLabelValues(result).Inc()
}

// RecordStoreOperation records one repository call.
func RecordStoreOperation(operation, result string) {
	StoreOperationsTotal.WithLabelValues(operation, result).Inc()
}
