package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route pattern
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minibadge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minibadge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// AwardsCreated counts awards created by the issuer
	AwardsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minibadge_awards_created_total",
			Help: "Total number of awards created",
		},
	)

	// SlugCollisions counts minted award slugs that were already taken
	SlugCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minibadge_award_slug_collisions_total",
			Help: "Total number of award slug collisions that forced a retry",
		},
	)

	// Notifications counts award notification emails by result
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minibadge_award_notifications_total",
			Help: "Total number of award notification emails by result",
		},
		[]string{"result"},
	)

	// AssertionsServed counts assertion documents built
	AssertionsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minibadge_assertions_served_total",
			Help: "Total number of assertion documents served",
		},
	)
)
