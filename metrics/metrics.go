// Package metrics provides Prometheus collectors for curator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by several collectors.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	// GatewayCalls counts remote model calls.
	// Labels: op (embeddings, chat), result (success, error)
	GatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total number of remote model calls",
		},
		[]string{"op", "result"},
	)

	// RankingsTotal counts rankings by the scorer that produced them.
	// Labels: path (semantic, heuristic, exhausted)
	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "ranking",
			Name:      "rankings_total",
			Help:      "Total number of rankings by scoring path",
		},
		[]string{"path"},
	)

	// RankingFallbacks counts semantic attempts that fell back to the heuristic scorer.
	RankingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "ranking",
			Name:      "fallbacks_total",
			Help:      "Total number of semantic rankings that fell back to heuristics",
		},
	)

	// RankingDuration tracks how long rankings take.
	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "curator",
			Subsystem: "ranking",
			Name:      "duration_seconds",
			Help:      "Duration of ranking requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// PrioritizationsTotal counts task prioritizations.
	// Labels: source (baseline, override)
	PrioritizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "priority",
			Name:      "prioritizations_total",
			Help:      "Total number of task prioritizations by order source",
		},
		[]string{"source"},
	)

	// QuotaDecisions counts quota checks.
	// Labels: feature, result (granted, denied)
	QuotaDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "quota",
			Name:      "decisions_total",
			Help:      "Total number of quota consume attempts by outcome",
		},
		[]string{"feature", "result"},
	)

	// FeedbackWrites counts asynchronous feedback store writes.
	// Labels: result (success, error, dropped)
	FeedbackWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "ledger",
			Name:      "feedback_writes_total",
			Help:      "Total number of feedback store writes triggered by opinion toggles",
		},
		[]string{"result"},
	)

	// CatalogItems reports the size of the loaded catalog.
	// Labels: kind (total, vectorized)
	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "curator",
			Subsystem: "catalog",
			Name:      "items",
			Help:      "Number of catalog items loaded",
		},
		[]string{"kind"},
	)

	// HTTPRequests counts API requests.
	// Labels: method, route, status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration tracks API request latency.
	// Labels: route
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curator",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP API requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route"},
	)
)
