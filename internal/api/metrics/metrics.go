// Package metrics defines the custom Prometheus metrics of the CRM API. It is
// the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "deactivated" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AuthRejectionsTotal counts requests turned away by the auth gates.
// Label:
//   - reason: "missing_token", "token_expired", "token_malformed",
//     "token_signature", "user_not_authorized", "not_authenticated", "forbidden_role"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or authorization.",
	},
	[]string{"reason"},
)

// ── CRM metrics ───────────────────────────────────────────────────────────────

// UsersCreatedTotal counts accounts created by provisioning or registration.
// Label:
//   - role: "admin", "manager" or "user"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// LeadsCreatedTotal counts newly created leads.
// Label:
//   - source: "website", "call", "email", "referral" or "ads"
var LeadsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leads_created_total",
		Help:      "Total number of leads created, by source.",
	},
	[]string{"source"},
)

// TasksToggledTotal counts task status flips.
// Label:
//   - status: the status after the toggle
var TasksToggledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_toggled_total",
		Help:      "Total number of task status toggles, by resulting status.",
	},
	[]string{"status"},
)
