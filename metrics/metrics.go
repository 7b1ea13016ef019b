package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_created_total",
		Help: "Reservations committed.",
	})

	ReservationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_failures_total",
		Help: "Reservation commits that failed.",
	})

	WishlistToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wishlist_toggles_total",
		Help: "Wishlist toggles by resulting operation.",
	}, []string{"op"})

	RealtimeSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_subscribers",
		Help: "Open wishlist change streams.",
	})
)
