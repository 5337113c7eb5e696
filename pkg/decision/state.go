package decision

import (
	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/remedy"
)

// MapState classifies a validated observation into the policy state space.
// Priority mirrors the rule table: critical health dominates, then error
// count, then latency; degraded or unknown health without a stronger signal
// folds into the generic anomaly state.
func MapState(obs *remedy.RuntimeObservation, thresholds Thresholds) qtable.StateID {
	if obs.HealthState == remedy.HealthCritical {
		return qtable.StateDeploymentFailure
	}
	if obs.ErrorCount != nil && *obs.ErrorCount > thresholds.ErrorCount {
		return qtable.StateAnomalyScore
	}
	if obs.LatencyMs != nil && *obs.LatencyMs > thresholds.LatencyMs {
		return qtable.StateLatencyIssue
	}
	if obs.HealthState == remedy.HealthDegraded || obs.HealthState == remedy.HealthUnknown {
		return qtable.StateAnomalyHealth
	}
	return qtable.StateNoFailure
}
