// Package metrics defines and registers all custom Prometheus metrics for the
// social API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "social"

// ── Follow graph metrics ──────────────────────────────────────────────────────

// FollowsTotal counts successful follow graph mutations.
// Label:
//   - action: "follow" or "unfollow"
var FollowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follows_total",
		Help:      "Total number of follow and unfollow operations applied.",
	},
	[]string{"action"},
)

// GraphRepairsTotal counts repair job outcomes.
// Label:
//   - result: "repaired", "clean", "error" or "dropped" (queue full)
var GraphRepairsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graph_repairs_total",
		Help:      "Total number of follow edge repair jobs, by result.",
	},
	[]string{"result"},
)

// RepairQueueDepth tracks the number of repair jobs waiting in each worker channel.
var RepairQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "repair_queue_depth",
		Help:      "Current number of edge repairs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ── Post metrics ──────────────────────────────────────────────────────────────

var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// FeedDuration measures feed composition latency.
// Label:
//   - feed: "profile", "latest" or "social"
var FeedDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_duration_seconds",
		Help:      "Duration of feed queries, by feed kind.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"feed"},
)
