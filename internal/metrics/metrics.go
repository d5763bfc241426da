// Package metrics defines and registers the gateway's custom Prometheus
// metrics. It is the single source of truth for metric names, labels, and
// help strings; registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventtogether"

// UpstreamRequestsTotal counts calls to the upstream REST API.
// Labels:
//   - method: HTTP method of the outbound request
//   - status: numeric response status, or "error" when no response arrived
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the upstream API.",
	},
	[]string{"method", "status"},
)

// UpstreamRequestDuration measures upstream round-trip time.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionsStartedTotal counts successful logins.
var SessionsStartedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Total number of sessions established via login.",
	},
)

// SessionsEndedTotal counts destroyed sessions.
// Label:
//   - reason: "logout" (explicit) or "expired" (upstream 401 interceptor)
var SessionsEndedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_ended_total",
		Help:      "Total number of sessions destroyed, by reason.",
	},
	[]string{"reason"},
)

// AuthFailuresTotal counts failed login attempts as seen by the gateway.
// Label:
//   - stage: "credentials" (token exchange) or "profile" (post-login fetch)
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed login attempts, by failing stage.",
	},
	[]string{"stage"},
)
