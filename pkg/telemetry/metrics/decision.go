package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"aegis-hq/aegis/pkg/config"
)

// DecisionMetrics tracks decision engine behavior.
//
// Metrics:
//   - aegis_decision_decisions_total: decisions by strategy, action, reason
//   - aegis_decision_duration_seconds: decision latency by strategy
//   - aegis_decision_epsilon: current exploration rate of the adaptive strategy
type DecisionMetrics struct {
	decisionsTotal *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	epsilon        prometheus.Gauge
}

// NewDecisionMetrics creates and registers decision metrics.
func NewDecisionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DecisionMetrics {
	dm := &DecisionMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "decision",
				Name:      "decisions_total",
				Help:      "Total decisions, by strategy, action, and reason",
			},
			[]string{"strategy", "action", "reason"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "decision",
				Name:      "duration_seconds",
				Help:      "Decision latency, by strategy",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 16), // 10µs to ~650ms
			},
			[]string{"strategy"},
		),

		epsilon: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "decision",
				Name:      "epsilon",
				Help:      "Current exploration rate of the adaptive strategy",
			},
		),
	}

	registry.MustRegister(dm.decisionsTotal, dm.duration, dm.epsilon)
	return dm
}

// RecordDecision records one decision outcome.
func (dm *DecisionMetrics) RecordDecision(strategy, action, reason string, duration time.Duration) {
	dm.decisionsTotal.WithLabelValues(strategy, action, reason).Inc()
	dm.duration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// SetEpsilon publishes the current exploration rate.
func (dm *DecisionMetrics) SetEpsilon(epsilon float64) {
	dm.epsilon.Set(epsilon)
}
