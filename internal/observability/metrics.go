package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cabbook", Name: "bookings_created_total", Help: "Total bookings created",
	})
	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cabbook", Name: "booking_transitions_total", Help: "Booking status transitions applied",
	}, []string{"status"})
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cabbook", Name: "login_attempts_total", Help: "Login attempts by outcome",
	}, []string{"outcome"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cabbook", Name: "http_requests_total", Help: "Total HTTP requests handled",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cabbook",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency distribution",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
