package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longa_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "longa_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longa_booking_transitions_total",
			Help: "Booking status transitions by action and resulting status",
		},
		[]string{"action", "status"},
	)

	PayoutsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longa_payouts_created_total",
			Help: "Payouts created by type",
		},
		[]string{"type"},
	)

	PayoutsExportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longa_payouts_exported_total",
			Help: "Payout rows written to exports",
		},
		[]string{"marked"},
	)

	SecondaryWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longa_secondary_write_failures_total",
			Help: "Non-fatal failures of audit, event and cache writes",
		},
		[]string{"kind"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingTransition(action, status string) {
	BookingTransitionsTotal.WithLabelValues(action, status).Inc()
}

func RecordPayoutCreated(payoutType string) {
	PayoutsCreatedTotal.WithLabelValues(payoutType).Inc()
}

func RecordPayoutsExported(count int, marked bool) {
	label := "false"
	if marked {
		label = "true"
	}
	PayoutsExportedTotal.WithLabelValues(label).Add(float64(count))
}

func RecordSecondaryWriteFailure(kind string) {
	SecondaryWriteFailuresTotal.WithLabelValues(kind).Inc()
}
