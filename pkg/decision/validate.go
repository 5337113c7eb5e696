package decision

import (
	"strings"

	"aegis-hq/aegis/pkg/remedy"
)

// Validation reason tags. Each names the first failing check so callers can
// distinguish failure classes without parsing prose.
const (
	ReasonEmptyPayload         = "invalid_input_empty_payload"
	ReasonMissingApp           = "missing_required_field_app"
	ReasonMissingEnv           = "missing_required_field_env"
	ReasonMissingState         = "missing_required_field_state"
	ReasonInvalidEnvironment   = "invalid_environment"
	ReasonInvalidHealthState   = "invalid_health_state"
	ReasonInvalidApp           = "invalid_app"
	ReasonMalformedLatency     = "malformed_numeric_field_latency_ms"
	ReasonMalformedErrorCount  = "malformed_numeric_field_errors_last_min"
	ReasonNoActionRequired     = "no_action_required"
	ReasonStateCritical        = "state_critical"
	ReasonErrorCountExceeded   = "error_count_exceeded_threshold"
	ReasonHighLatencyDetected  = "high_latency_detected"
)

// validateObservation runs the fixed check sequence; the first failing check
// wins. It returns the reason tag for the failure, or "" if the observation
// is valid.
//
// Order: required fields present, environment known, health state known,
// app identifier non-blank, optional numerics non-negative.
func validateObservation(obs *remedy.RuntimeObservation) string {
	if obs == nil {
		return ReasonEmptyPayload
	}
	if obs.AppID == "" && obs.Environment == "" && obs.HealthState == "" {
		return ReasonEmptyPayload
	}

	if obs.AppID == "" {
		return ReasonMissingApp
	}
	if obs.Environment == "" {
		return ReasonMissingEnv
	}
	if obs.HealthState == "" {
		return ReasonMissingState
	}

	if !obs.Environment.Valid() {
		return ReasonInvalidEnvironment
	}
	if !obs.HealthState.Valid() {
		return ReasonInvalidHealthState
	}

	if strings.TrimSpace(obs.AppID) == "" {
		return ReasonInvalidApp
	}

	if obs.LatencyMs != nil && *obs.LatencyMs < 0 {
		return ReasonMalformedLatency
	}
	if obs.ErrorCount != nil && *obs.ErrorCount < 0 {
		return ReasonMalformedErrorCount
	}

	return ""
}
