package decision

import (
	"context"
	"time"

	"aegis-hq/aegis/pkg/remedy"
)

// Engine produces exactly one Decision per observation.
//
// Implementations never return an error for malformed input; validation
// failures resolve to a noop Decision with a reason tag. The error slot
// exists for transport-level implementations (a remote engine can be
// unreachable); in-process engines always return a nil error.
type Engine interface {
	Decide(ctx context.Context, obs *remedy.RuntimeObservation) (*remedy.Decision, error)

	// Name identifies the strategy ("rules" or "rl") for logs and metrics.
	Name() string
}

// Thresholds are the numeric trip points shared by both strategies: the rule
// table branches on them and the adaptive strategy uses them to classify
// observations into states.
type Thresholds struct {
	// ErrorCount above which an application is considered failing.
	ErrorCount int

	// LatencyMs above which an application is considered slow.
	LatencyMs float64
}

// DefaultThresholds returns the stock trip points.
func DefaultThresholds() Thresholds {
	return Thresholds{ErrorCount: 10, LatencyMs: 5000}
}

// noopDecision builds the universal safe-default decision.
func noopDecision(reason string, metadata map[string]interface{}) *remedy.Decision {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return &remedy.Decision{
		Action:     remedy.ActionNoop,
		Reason:     reason,
		Confidence: 0,
		ProducedAt: time.Now(),
		Metadata:   metadata,
	}
}
