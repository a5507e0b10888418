// Package metrics owns the Prometheus collectors for the gateway and the
// navigator sessions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// SourceUpstream labels answers produced by the model.
	SourceUpstream = "upstream"
	// SourceFallback labels answers produced by the local fallback branch.
	SourceFallback = "fallback"
	// SourceLocal labels answers that never needed the model (empty query).
	SourceLocal = "local"
)

var (
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enfoco",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Gateway calls partitioned by operation and the branch that answered.",
		},
		[]string{"operation", "source"},
	)

	gatewayRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "enfoco",
			Subsystem: "gateway",
			Name:      "request_seconds",
			Help:      "Gateway call latency in seconds, fallback included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"operation"},
	)

	gatewayDroppedResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "enfoco",
			Subsystem: "gateway",
			Name:      "dropped_results_total",
			Help:      "Upstream results discarded because they matched no dataset record.",
		},
	)

	gatewayTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enfoco",
			Subsystem: "gateway",
			Name:      "tokens_total",
			Help:      "Tokens reported by the upstream model, by direction.",
		},
		[]string{"direction"},
	)

	gatewayCostDollars = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "enfoco",
			Subsystem: "gateway",
			Name:      "estimated_cost_dollars_total",
			Help:      "Estimated upstream spend in USD from the static price table.",
		},
	)

	navigatorTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enfoco",
			Subsystem: "navigator",
			Name:      "transitions_total",
			Help:      "Navigator inputs partitioned by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "enfoco",
			Name:      "sessions_active",
			Help:      "Navigator sessions currently held in memory.",
		},
	)
)

// Register attaches the enfoco collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		gatewayRequestsTotal,
		gatewayRequestSeconds,
		gatewayDroppedResultsTotal,
		gatewayTokensTotal,
		gatewayCostDollars,
		navigatorTransitionsTotal,
		sessionsActive,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveGateway records one gateway call.
func ObserveGateway(operation, source string, duration time.Duration) {
	gatewayRequestsTotal.WithLabelValues(operation, source).Inc()
	if duration < 0 {
		duration = 0
	}
	gatewayRequestSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// AddDroppedResults counts fabricated upstream results.
func AddDroppedResults(n int) {
	if n > 0 {
		gatewayDroppedResultsTotal.Add(float64(n))
	}
}

// AddUsage records the token counts and estimated cost of one upstream call.
func AddUsage(inputTokens, outputTokens int, dollars float64) {
	if inputTokens > 0 {
		gatewayTokensTotal.WithLabelValues("input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		gatewayTokensTotal.WithLabelValues("output").Add(float64(outputTokens))
	}
	if dollars > 0 {
		gatewayCostDollars.Add(dollars)
	}
}

// ObserveTransition counts a navigator input.
func ObserveTransition(action, outcome string) {
	navigatorTransitionsTotal.WithLabelValues(action, outcome).Inc()
}

// SessionOpened increments the live session gauge.
func SessionOpened() { sessionsActive.Inc() }

// SessionClosed decrements it, on delete or TTL eviction.
func SessionClosed() { sessionsActive.Dec() }
