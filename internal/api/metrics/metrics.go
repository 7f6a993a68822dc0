// Package metrics defines the custom Prometheus metrics for the blog API. It
// is the single source of truth for metric names, labels, and help strings.
//
// All metrics live on Registry rather than the global default registry so the
// HTTP middleware and /metrics handler can be pointed at the same place.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog_api"

// Registry collects every metric exposed on /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "rejected" (validation/credentials) or "error"
var AuthAttemptsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// TokenRefreshTotal counts refresh-token exchanges.
// Label:
//   - result: "success", "rejected" or "error"
var TokenRefreshTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of refresh-token exchanges, by outcome.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logouts.
// Label:
//   - scope: "single" or "all"
var LogoutsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts, by scope.",
	},
	[]string{"scope"},
)

// ── Token sweeper metrics ─────────────────────────────────────────────────────

// TokensSweptTotal counts refresh-token rows removed by the sweeper.
var TokensSweptTotal = factory.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_tokens_swept_total",
		Help:      "Total number of expired or revoked refresh tokens purged.",
	},
)

// SweepErrorsTotal counts sweeper runs that failed.
var SweepErrorsTotal = factory.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_token_sweep_errors_total",
		Help:      "Total number of failed refresh-token sweeps.",
	},
)

// ── Rate limiting ─────────────────────────────────────────────────────────────

// RateLimitRejectedTotal counts requests denied with 429.
// Label:
//   - scope: limiter name ("global" or "auth")
var RateLimitRejectedTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejected_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"scope"},
)

// RateLimitErrorsTotal counts limiter backend failures (the request is let through).
var RateLimitErrorsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_errors_total",
		Help:      "Total number of rate limiter backend errors.",
	},
	[]string{"scope"},
)

// ── Blog metrics ──────────────────────────────────────────────────────────────

// BlogOperationsTotal counts successful blog writes.
// Label:
//   - operation: "create", "update" or "delete"
var BlogOperationsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blog_operations_total",
		Help:      "Total number of successful blog writes, by operation.",
	},
	[]string{"operation"},
)
