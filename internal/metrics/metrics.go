// Package metrics holds the Prometheus counters of the login flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketlink"

var (
	loginAttempts = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	usersCreated = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "User records created, by origin.",
		},
		[]string{"origin"},
	)

	reconcileConflicts = promauto.NewCounter( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_conflicts_total",
			Help:      "Duplicate email conflicts resolved by re-reading the record.",
		},
	)
)

// LoginAttempt counts one login. method is "password" or the provider name.
func LoginAttempt(method, outcome string) {
	loginAttempts.WithLabelValues(method, outcome).Inc()
}

// UserCreated counts a new user record. origin is "credential" or the provider name.
func UserCreated(origin string) {
	usersCreated.WithLabelValues(origin).Inc()
}

// ReconcileConflict counts a duplicate email conflict during reconciliation.
func ReconcileConflict() {
	reconcileConflicts.Inc()
}
