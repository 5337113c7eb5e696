package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"aegis-hq/aegis/pkg/config"
)

// ExecutionMetrics tracks gateway outcomes.
//
// Metrics:
//   - aegis_gateway_executions_total: executions by action, env, status
//   - aegis_gateway_rejections_total: rejections by env and reason
//   - aegis_gateway_execution_duration_seconds: execution latency by action
type ExecutionMetrics struct {
	executionsTotal *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

// NewExecutionMetrics creates and registers gateway metrics.
func NewExecutionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExecutionMetrics {
	em := &ExecutionMetrics{
		executionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "gateway",
				Name:      "executions_total",
				Help:      "Total execution attempts, by action, environment, and status",
			},
			[]string{"action", "env", "status"},
		),

		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "gateway",
				Name:      "rejections_total",
				Help:      "Rejected execution requests, by environment and reason",
			},
			[]string{"env", "reason"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "gateway",
				Name:      "execution_duration_seconds",
				Help:      "Execution latency, by action",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 100µs to ~6.5s
			},
			[]string{"action"},
		),
	}

	registry.MustRegister(em.executionsTotal, em.rejectionsTotal, em.duration)
	return em
}

// RecordExecution records one execution attempt outcome.
func (em *ExecutionMetrics) RecordExecution(action, env, status string, duration time.Duration) {
	em.executionsTotal.WithLabelValues(action, env, status).Inc()
	em.duration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordRejection records a rejected request.
func (em *ExecutionMetrics) RecordRejection(env, reason string) {
	em.rejectionsTotal.WithLabelValues(env, reason).Inc()
}
