// Package metrics defines and registers all custom Prometheus metrics for
// the dealership API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dealership"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "rejected" (validation/duplicate) or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts session-token verifications performed by the
// identity middleware.
// Label:
//   - result: "ok", "expired", "invalid_signature", "malformed"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of session token verifications, by result.",
	},
	[]string{"result"},
)

// GuardDenialsTotal counts requests short-circuited by a guard.
// Label:
//   - guard: "authentication" (redirect to login) or "role" (forbidden)
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests rejected by an access guard.",
	},
	[]string{"guard"},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// VehicleSearchesTotal counts keyword searches against the catalog.
var VehicleSearchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vehicle_searches_total",
		Help:      "Total number of vehicle keyword searches.",
	},
)
