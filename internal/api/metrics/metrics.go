// Package metrics defines and registers all custom Prometheus metrics for
// the access API. It is the single source of truth for metric names, labels,
// and help strings; metrics register with the default registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "access"

// LoginsTotal counts authentication attempts by outcome.
// Labels:
//   - outcome: "success", "invalid_credentials", "account_unavailable",
//     "locked_out", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of authentication attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AuthzDecisionsTotal counts authorization decisions.
// Labels:
//   - guard: "route" or "operation"
//   - decision: "allow" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by guard point and outcome.",
	},
	[]string{"guard", "decision"},
)

// AccountLockoutsTotal counts accounts locked by the failed-login tracker.
var AccountLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_lockouts_total",
		Help:      "Total number of accounts locked after repeated failed logins.",
	},
)

// PasswordRehashTotal counts background credential upgrades.
// Label:
//   - result: "ok" or "error"
var PasswordRehashTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_rehash_total",
		Help:      "Total number of background password rehash attempts, by result.",
	},
	[]string{"result"},
)

// LoginDuration measures end-to-end authentication latency, dominated by the
// intentionally CPU-expensive hash comparison.
// Label:
//   - outcome: same values as LoginsTotal
var LoginDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of authentication from request to decision.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"outcome"},
)
