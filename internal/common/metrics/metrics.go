// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	SessionForcedLogouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_forced_logouts_total",
			Help: "Total number of sessions invalidated by a backend 401",
		},
	)

	ProfileFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_profile_fetches_total",
			Help: "Total number of profile fetches by outcome",
		},
		[]string{"outcome"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "session_backend_request_duration_seconds",
			Help: "Duration of backend REST calls in seconds",
		},
		[]string{"operation", "status"},
	)
)
