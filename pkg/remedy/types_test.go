package remedy

import "testing"

func TestActions_DeclaredOrder(t *testing.T) {
	want := []Action{
		ActionRestart,
		ActionScaleUp,
		ActionScaleDown,
		ActionDeploy,
		ActionRollback,
		ActionNoop,
	}

	got := Actions()
	if len(got) != len(want) {
		t.Fatalf("Actions() returned %d actions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Actions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEnvironment_Valid(t *testing.T) {
	tests := []struct {
		env  Environment
		want bool
	}{
		{EnvDev, true},
		{EnvStage, true},
		{EnvProd, true},
		{Environment("production"), false},
		{Environment(""), false},
	}

	for _, tt := range tests {
		if got := tt.env.Valid(); got != tt.want {
			t.Errorf("Environment(%q).Valid() = %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestHealthState_Valid(t *testing.T) {
	tests := []struct {
		state HealthState
		want  bool
	}{
		{HealthHealthy, true},
		{HealthDegraded, true},
		{HealthCritical, true},
		{HealthUnknown, true},
		{HealthState("down"), false},
		{HealthState(""), false},
	}

	for _, tt := range tests {
		if got := tt.state.Valid(); got != tt.want {
			t.Errorf("HealthState(%q).Valid() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestExecutionStatus_Succeeded(t *testing.T) {
	tests := []struct {
		status ExecutionStatus
		want   bool
	}{
		{StatusExecuted, true},
		{StatusSimulated, true},
		{StatusRejected, false},
		{StatusFailed, false},
	}

	for _, tt := range tests {
		if got := tt.status.Succeeded(); got != tt.want {
			t.Errorf("%q.Succeeded() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
