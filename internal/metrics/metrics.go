package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymapp_api_requests_total",
			Help: "Total number of API requests issued by the client",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymapp_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	GeocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymapp_geocode_requests_total",
			Help: "Total number of geocoding requests",
		},
		[]string{"kind", "status"},
	)

	BookingsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymapp_bookings_submitted_total",
			Help: "Total number of booking submissions",
		},
		[]string{"status"},
	)

	BuddyInvitesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymapp_buddy_invites_total",
			Help: "Total number of buddy invites sent after booking",
		},
		[]string{"status"},
	)

	DirectoryPagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymapp_directory_pages_total",
			Help: "Total number of gym directory pages fetched",
		},
	)
)

func RecordAPIRequest(method, path, status string, duration float64) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordGeocode(kind, status string) {
	GeocodeRequestsTotal.WithLabelValues(kind, status).Inc()
}

func RecordBooking(status string) {
	BookingsSubmittedTotal.WithLabelValues(status).Inc()
}

func RecordBuddyInvite(status string) {
	BuddyInvitesTotal.WithLabelValues(status).Inc()
}

func RecordDirectoryPage() {
	DirectoryPagesTotal.Inc()
}
