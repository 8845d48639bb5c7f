// Package metrics provides Prometheus metrics for the mirror server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradlemirror_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gradlemirror_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Route classification metrics
	routeOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradlemirror_route_outcomes_total",
			Help: "Total number of route classifications by outcome",
		},
		[]string{"outcome"},
	)

	// Object store metrics
	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradlemirror_store_operations_total",
			Help: "Total number of object store operations",
		},
		[]string{"operation", "status"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gradlemirror_store_operation_duration_seconds",
			Help:    "Object store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Mirror synchronization metrics
	syncDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradlemirror_sync_downloads_total",
			Help: "Total number of distribution downloads during sync",
		},
		[]string{"status"},
	)

	syncBytesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gradlemirror_sync_bytes_uploaded_total",
			Help: "Total bytes uploaded to the store during sync",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its duration.
func RecordHTTPRequest(method string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordRouteOutcome records one route classification.
func RecordRouteOutcome(outcome string) {
	routeOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordStoreOperation records an object store call.
func RecordStoreOperation(operation, status string, duration time.Duration) {
	storeOperationsTotal.WithLabelValues(operation, status).Inc()
	storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSyncDownload records one distribution download attempt during sync.
func RecordSyncDownload(status string) {
	syncDownloadsTotal.WithLabelValues(status).Inc()
}

// RecordSyncUpload records bytes uploaded to the store during sync.
func RecordSyncUpload(bytes int64) {
	syncBytesUploaded.Add(float64(bytes))
}

// Handler returns the Prometheus metrics HTTP handler for the admin listener.
func Handler() http.Handler {
	return promhttp.Handler()
}
