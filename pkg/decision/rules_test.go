package decision

import (
	"context"
	"testing"

	"aegis-hq/aegis/pkg/remedy"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func validObservation() *remedy.RuntimeObservation {
	return &remedy.RuntimeObservation{
		AppID:       "checkout",
		Environment: remedy.EnvProd,
		HealthState: remedy.HealthHealthy,
	}
}

func TestRuleEngineDecide(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(*remedy.RuntimeObservation)
		wantAction     remedy.Action
		wantReason     string
		wantConfidence float64
	}{
		{
			name:           "healthy defaults to noop",
			mutate:         func(o *remedy.RuntimeObservation) {},
			wantAction:     remedy.ActionNoop,
			wantReason:     ReasonNoActionRequired,
			wantConfidence: 0.95,
		},
		{
			name: "critical restarts",
			mutate: func(o *remedy.RuntimeObservation) {
				o.HealthState = remedy.HealthCritical
			},
			wantAction:     remedy.ActionRestart,
			wantReason:     ReasonStateCritical,
			wantConfidence: 0.9,
		},
		{
			name: "critical dominates latency",
			mutate: func(o *remedy.RuntimeObservation) {
				o.HealthState = remedy.HealthCritical
				o.LatencyMs = floatPtr(9000)
			},
			wantAction:     remedy.ActionRestart,
			wantReason:     ReasonStateCritical,
			wantConfidence: 0.9,
		},
		{
			name: "error count above threshold restarts",
			mutate: func(o *remedy.RuntimeObservation) {
				o.ErrorCount = intPtr(15)
			},
			wantAction:     remedy.ActionRestart,
			wantReason:     ReasonErrorCountExceeded,
			wantConfidence: 0.85,
		},
		{
			name: "error count at threshold is not enough",
			mutate: func(o *remedy.RuntimeObservation) {
				o.ErrorCount = intPtr(10)
			},
			wantAction:     remedy.ActionNoop,
			wantReason:     ReasonNoActionRequired,
			wantConfidence: 0.95,
		},
		{
			name: "error count dominates latency",
			mutate: func(o *remedy.RuntimeObservation) {
				o.ErrorCount = intPtr(15)
				o.LatencyMs = floatPtr(9000)
			},
			wantAction:     remedy.ActionRestart,
			wantReason:     ReasonErrorCountExceeded,
			wantConfidence: 0.85,
		},
		{
			name: "high latency scales up",
			mutate: func(o *remedy.RuntimeObservation) {
				o.LatencyMs = floatPtr(8000)
			},
			wantAction:     remedy.ActionScaleUp,
			wantReason:     ReasonHighLatencyDetected,
			wantConfidence: 0.75,
		},
		{
			name: "latency at threshold is not enough",
			mutate: func(o *remedy.RuntimeObservation) {
				o.LatencyMs = floatPtr(5000)
			},
			wantAction:     remedy.ActionNoop,
			wantReason:     ReasonNoActionRequired,
			wantConfidence: 0.95,
		},
		{
			name: "degraded without metrics is noop",
			mutate: func(o *remedy.RuntimeObservation) {
				o.HealthState = remedy.HealthDegraded
			},
			wantAction:     remedy.ActionNoop,
			wantReason:     ReasonNoActionRequired,
			wantConfidence: 0.95,
		},
	}

	engine := NewRuleEngine(DefaultThresholds())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := validObservation()
			tt.mutate(obs)

			got, err := engine.Decide(context.Background(), obs)
			if err != nil {
				t.Fatalf("Decide() error = %v", err)
			}
			if got.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", got.Action, tt.wantAction)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestRuleEngineDeterminism(t *testing.T) {
	engine := NewRuleEngine(DefaultThresholds())
	obs := validObservation()
	obs.HealthState = remedy.HealthCritical
	obs.ErrorCount = intPtr(15)

	first, err := engine.Decide(context.Background(), obs)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	second, err := engine.Decide(context.Background(), obs)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if first.Action != second.Action || first.Reason != second.Reason || first.Confidence != second.Confidence {
		t.Errorf("sequential decisions differ: %+v vs %+v", first, second)
	}
}

func TestRuleEngineInvalidObservation(t *testing.T) {
	engine := NewRuleEngine(DefaultThresholds())

	got, err := engine.Decide(context.Background(), &remedy.RuntimeObservation{})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got.Action != remedy.ActionNoop {
		t.Errorf("Action = %q, want noop", got.Action)
	}
	if got.Reason != ReasonEmptyPayload {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonEmptyPayload)
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", got.Confidence)
	}
}
