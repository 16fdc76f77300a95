package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{Namespace: "flagg", Name: "bookings_submitted_total", Help: "Bookings handed to the session after pickup confirmation"})
	FlowsStarted      = promauto.NewCounter(prometheus.CounterOpts{Namespace: "flagg", Name: "flows_started_total", Help: "Booking flows opened"})
	FlowsAbandoned    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "flagg", Name: "flows_abandoned_total", Help: "Booking flows abandoned before submission"})

	StaleGeocodesDropped = promauto.NewCounter(prometheus.CounterOpts{Namespace: "flagg", Name: "stale_geocodes_dropped_total", Help: "Reverse-geocode responses discarded for arriving after a newer request"})
	DragsIgnored         = promauto.NewCounter(prometheus.CounterOpts{Namespace: "flagg", Name: "map_drags_ignored_total", Help: "Map drags ignored because no location picker was active"})
	TierRefreshes        = promauto.NewCounter(prometheus.CounterOpts{Namespace: "flagg", Name: "tier_refreshes_total", Help: "Tier price list refreshes, initial and polled"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flagg", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flagg",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
