// Package metrics registers and records the service's Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aegis-hq/aegis/pkg/config"
)

// Collector owns the registry and the per-concern metric groups. One
// instance is constructed at startup and shared by reference.
type Collector struct {
	registry *prometheus.Registry

	Pipeline  *PipelineMetrics
	Decisions *DecisionMetrics
	Execution *ExecutionMetrics
	Learning  *LearningMetrics
}

// NewCollector builds a collector on a fresh registry. If registry is nil a
// new one is created with the standard Go and process collectors attached.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Collector{
		registry:  registry,
		Pipeline:  NewPipelineMetrics(cfg, registry),
		Decisions: NewDecisionMetrics(cfg, registry),
		Execution: NewExecutionMetrics(cfg, registry),
		Learning:  NewLearningMetrics(cfg, registry),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Registry exposes the underlying registry, for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
