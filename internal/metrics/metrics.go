package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

var (
	// RefreshTotal counts refresh calls actually executed, by execution context
	// ("server", "client") and outcome.
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nugudi_token_refresh_total",
		Help: "Token refresh calls executed.",
	}, []string{"scope", "outcome"})

	// RefreshJoinedTotal counts callers that waited on a refresh started by someone else.
	RefreshJoinedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nugudi_token_refresh_joined_total",
		Help: "Callers that joined an in-flight token refresh.",
	}, []string{"scope"})

	RefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nugudi_token_refresh_duration_seconds",
		Help:    "Duration of executed token refresh calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})

	// GuardDecisions counts session guard outcomes.
	GuardDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nugudi_session_guard_decisions_total",
		Help: "Session guard decisions by kind.",
	}, []string{"decision"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)
