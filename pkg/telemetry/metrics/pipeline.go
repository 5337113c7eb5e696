package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"aegis-hq/aegis/pkg/config"
)

// PipelineMetrics tracks event-level outcomes of the orchestrator.
//
// Metrics:
//   - aegis_pipeline_events_total: events by terminal status
//   - aegis_pipeline_event_duration_seconds: end-to-end event latency
//   - aegis_pipeline_events_in_flight: concurrently processed events
//   - aegis_pipeline_fallbacks_total: degraded fallbacks by stage and failure kind
type PipelineMetrics struct {
	eventsTotal    *prometheus.CounterVec
	eventDuration  prometheus.Histogram
	eventsInFlight prometheus.Gauge
	fallbacksTotal *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers pipeline metrics.
func NewPipelineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PipelineMetrics {
	pm := &PipelineMetrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "events_total",
				Help:      "Total events processed, by terminal status",
			},
			[]string{"status"},
		),

		eventDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "event_duration_seconds",
				Help:      "End-to-end event processing duration",
				// Two bounded 3s calls dominate the tail.
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
			},
		),

		eventsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "events_in_flight",
				Help:      "Events currently being processed",
			},
		),

		fallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "fallbacks_total",
				Help:      "Degraded fallbacks, by pipeline stage and failure kind",
			},
			[]string{"stage", "kind"},
		),
	}

	registry.MustRegister(
		pm.eventsTotal,
		pm.eventDuration,
		pm.eventsInFlight,
		pm.fallbacksTotal,
	)

	return pm
}

// RecordEvent records a completed event with its terminal status.
func (pm *PipelineMetrics) RecordEvent(status string, duration time.Duration) {
	pm.eventsTotal.WithLabelValues(status).Inc()
	pm.eventDuration.Observe(duration.Seconds())
}

// RecordFallback records a degraded fallback at stage ("decision" or
// "execution") with its failure kind.
func (pm *PipelineMetrics) RecordFallback(stage, kind string) {
	pm.fallbacksTotal.WithLabelValues(stage, kind).Inc()
}

// EventStarted marks an event entering the pipeline.
func (pm *PipelineMetrics) EventStarted() { pm.eventsInFlight.Inc() }

// EventFinished marks an event leaving the pipeline.
func (pm *PipelineMetrics) EventFinished() { pm.eventsInFlight.Dec() }
