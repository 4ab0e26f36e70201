package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestResolutions counts join-request resolutions by decision and result (success|conflict|error).
	RequestResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabmatch_request_resolutions_total",
			Help: "Total number of join-request resolution attempts",
		},
		[]string{"decision", "result"},
	)

	// EntityTransitions counts entity lifecycle transitions (completed|cancelled).
	EntityTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabmatch_entity_transitions_total",
			Help: "Total number of entity lifecycle transitions",
		},
		[]string{"status"},
	)

	// TrustPointsAwarded accumulates trust points granted, labelled by event kind.
	TrustPointsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabmatch_trust_points_awarded_total",
			Help: "Total trust points granted to users",
		},
		[]string{"event"},
	)

	// OutboxDispatches counts notification outbox delivery attempts by result.
	OutboxDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabmatch_outbox_dispatches_total",
			Help: "Total notification outbox dispatch attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collabmatch_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
