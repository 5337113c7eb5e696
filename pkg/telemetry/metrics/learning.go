package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"aegis-hq/aegis/pkg/config"
)

// LearningMetrics tracks the reward adapter and policy persistence.
//
// Metrics:
//   - aegis_learning_updates_total: value updates by algorithm, state, action
//   - aegis_learning_reward: observed reward distribution
//   - aegis_learning_q_value: last written value per state and action
//   - aegis_learning_checkpoints_total: table persistence attempts by outcome
//   - aegis_learning_experience_buffer_size: current replay buffer length
type LearningMetrics struct {
	updatesTotal     *prometheus.CounterVec
	reward           prometheus.Histogram
	qValue           *prometheus.GaugeVec
	checkpointsTotal *prometheus.CounterVec
	bufferSize       prometheus.Gauge
}

// NewLearningMetrics creates and registers learning metrics.
func NewLearningMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LearningMetrics {
	lm := &LearningMetrics{
		updatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "learning",
				Name:      "updates_total",
				Help:      "Total value-table updates, by algorithm, state, and action",
			},
			[]string{"algorithm", "state", "action"},
		),

		reward: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "learning",
				Name:      "reward",
				Help:      "Observed shaped rewards",
				Buckets:   prometheus.LinearBuckets(-2, 0.5, 9), // -2 to +2
			},
		),

		qValue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "learning",
				Name:      "q_value",
				Help:      "Last written value per state and action",
			},
			[]string{"state", "action"},
		),

		checkpointsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "learning",
				Name:      "checkpoints_total",
				Help:      "Value-table persistence attempts, by outcome",
			},
			[]string{"outcome"},
		),

		bufferSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "learning",
				Name:      "experience_buffer_size",
				Help:      "Current experience replay buffer length",
			},
		),
	}

	registry.MustRegister(
		lm.updatesTotal,
		lm.reward,
		lm.qValue,
		lm.checkpointsTotal,
		lm.bufferSize,
	)

	return lm
}

// RecordUpdate records one value-table update.
func (lm *LearningMetrics) RecordUpdate(algorithm, state, action string, reward, newValue float64) {
	lm.updatesTotal.WithLabelValues(algorithm, state, action).Inc()
	lm.reward.Observe(reward)
	lm.qValue.WithLabelValues(state, action).Set(newValue)
}

// RecordCheckpoint records a persistence attempt ("ok" or "error").
func (lm *LearningMetrics) RecordCheckpoint(outcome string) {
	lm.checkpointsTotal.WithLabelValues(outcome).Inc()
}

// SetBufferSize publishes the replay buffer length.
func (lm *LearningMetrics) SetBufferSize(n int) {
	lm.bufferSize.Set(float64(n))
}
