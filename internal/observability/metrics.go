package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AuthAttempts counts register and login outcomes.
	AuthAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "friends",
		Name:      "auth_attempts_total",
		Help:      "Register and login attempts by action and result",
	}, []string{"action", "result"})

	// PostEvents counts post creations and deletions.
	PostEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "friends",
		Name:      "post_events_total",
		Help:      "Post lifecycle events by type",
	}, []string{"event"})

	// FollowEvents counts follow graph changes.
	FollowEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "friends",
		Name:      "follow_events_total",
		Help:      "Follow and unfollow operations by event",
	}, []string{"event"})

	// DatabaseQueryLatency records repository latency by operation and table.
	DatabaseQueryLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "friends",
		Name:      "database_query_latency_seconds",
		Help:      "Repository query latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// Collectors returns the domain collectors for registration on a metrics registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{AuthAttempts, PostEvents, FollowEvents, DatabaseQueryLatency}
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
