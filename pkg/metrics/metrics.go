package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by principal type and result
	// (success|failure|locked).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"principal", "result"},
	)

	// PermissionChecks counts permission gate evaluations and their outcome
	// (allowed|denied).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_permission_checks_total",
			Help: "Total number of permission checks",
		},
		[]string{"permission", "result"},
	)

	// WorkspaceGrants counts workspace access changes by operation (grant|revoke).
	WorkspaceGrants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcase_workspace_grants_total",
			Help: "Total number of workspace assignment grants and revokes",
		},
		[]string{"operation"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showcase_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
