package decision

import (
	"context"
	"time"

	"aegis-hq/aegis/pkg/remedy"
)

// RuleEngine is the deterministic strategy: a fixed priority table over the
// observation's health state and metrics. Given the same observation it
// always produces the same action, reason, and confidence.
type RuleEngine struct {
	thresholds Thresholds
}

// NewRuleEngine returns a rule engine with the given trip points.
func NewRuleEngine(thresholds Thresholds) *RuleEngine {
	return &RuleEngine{thresholds: thresholds}
}

func (e *RuleEngine) Name() string { return "rules" }

// Decide evaluates the rule table in priority order. Critical health wins
// over every other signal.
func (e *RuleEngine) Decide(ctx context.Context, obs *remedy.RuntimeObservation) (*remedy.Decision, error) {
	if reason := validateObservation(obs); reason != "" {
		return noopDecision(reason, nil), nil
	}

	meta := map[string]interface{}{
		"strategy": e.Name(),
		"app":      obs.AppID,
		"env":      obs.Environment.String(),
	}

	decision := &remedy.Decision{
		ProducedAt: time.Now(),
		Metadata:   meta,
	}

	switch {
	case obs.HealthState == remedy.HealthCritical:
		decision.Action = remedy.ActionRestart
		decision.Reason = ReasonStateCritical
		decision.Confidence = 0.9
	case obs.ErrorCount != nil && *obs.ErrorCount > e.thresholds.ErrorCount:
		decision.Action = remedy.ActionRestart
		decision.Reason = ReasonErrorCountExceeded
		decision.Confidence = 0.85
	case obs.LatencyMs != nil && *obs.LatencyMs > e.thresholds.LatencyMs:
		decision.Action = remedy.ActionScaleUp
		decision.Reason = ReasonHighLatencyDetected
		decision.Confidence = 0.75
	default:
		decision.Action = remedy.ActionNoop
		decision.Reason = ReasonNoActionRequired
		decision.Confidence = 0.95
	}

	return decision, nil
}
