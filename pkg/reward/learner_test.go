package reward

import (
	"context"
	"math"
	"testing"

	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/remedy"
	"aegis-hq/aegis/pkg/telemetry/logging"
)

func TestShape(t *testing.T) {
	tests := []struct {
		name      string
		succeeded bool
		verdict   Verdict
		want      float64
	}{
		{"success", true, VerdictNone, 1},
		{"failure", false, VerdictNone, -1},
		{"success accepted", true, VerdictAccepted, 2},
		{"failure accepted", false, VerdictAccepted, 0},
		{"success rejected", true, VerdictRejected, -1},
		{"failure rejected", false, VerdictRejected, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shape(tt.succeeded, tt.verdict); got != tt.want {
				t.Errorf("Shape(%v, %q) = %v, want %v", tt.succeeded, tt.verdict, got, tt.want)
			}
		})
	}
}

func newTestLearner(t *testing.T, algorithm string) (*Learner, *qtable.Table) {
	t.Helper()
	table := qtable.New()
	l, err := NewLearner(table, algorithm, 0.1, 0.95, 10, logging.Discard())
	if err != nil {
		t.Fatalf("NewLearner() error = %v", err)
	}
	return l, table
}

func TestNewLearnerRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := NewLearner(qtable.New(), "sarsa", 0.1, 0.95, 10, logging.Discard()); err == nil {
		t.Error("unknown algorithm accepted")
	}
}

func TestQLearningUpdate(t *testing.T) {
	l, table := newTestLearner(t, AlgorithmQLearning)

	update, err := l.Learn(context.Background(),
		qtable.StateDeploymentFailure, remedy.ActionRestart, 1, qtable.StateNoFailure)
	if err != nil {
		t.Fatalf("Learn() error = %v", err)
	}

	// Q <- 0 + 0.1*(1 - 0) = 0.1
	if math.Abs(update.NewValue-0.1) > 1e-9 {
		t.Errorf("NewValue = %v, want 0.1", update.NewValue)
	}
	if got := table.Value(qtable.StateDeploymentFailure, remedy.ActionRestart); got != update.NewValue {
		t.Errorf("table value = %v, want %v", got, update.NewValue)
	}
}

func TestQLearningMonotoneConvergence(t *testing.T) {
	l, table := newTestLearner(t, AlgorithmQLearning)

	prev := 0.0
	for i := 0; i < 100; i++ {
		update, err := l.Learn(context.Background(),
			qtable.StateDeploymentFailure, remedy.ActionRestart, 1, qtable.StateNoFailure)
		if err != nil {
			t.Fatalf("Learn() error = %v", err)
		}
		if update.NewValue <= prev {
			t.Fatalf("iteration %d: value %v did not increase past %v", i, update.NewValue, prev)
		}
		if update.NewValue > 1 {
			t.Fatalf("iteration %d: value %v overshot reward 1", i, update.NewValue)
		}
		prev = update.NewValue
	}

	if got := table.Value(qtable.StateDeploymentFailure, remedy.ActionRestart); got < 0.99 {
		t.Errorf("value after 100 updates = %v, want near 1", got)
	}
}

func TestDoubleQUpdate(t *testing.T) {
	l, table := newTestLearner(t, AlgorithmDoubleQ)
	table.SetValue(qtable.StateNoFailure, remedy.ActionNoop, 0.5)

	update, err := l.Learn(context.Background(),
		qtable.StateLatencyIssue, remedy.ActionScaleUp, 1, qtable.StateNoFailure)
	if err != nil {
		t.Fatalf("Learn() error = %v", err)
	}

	// target = 1 + 0.95*0.5 = 1.475; Q <- 0 + 0.1*1.475 = 0.1475
	if math.Abs(update.NewValue-0.1475) > 1e-9 {
		t.Errorf("NewValue = %v, want 0.1475", update.NewValue)
	}
}

func TestActorCriticUpdate(t *testing.T) {
	l, table := newTestLearner(t, AlgorithmActorCritic)

	// Mean over 6 actions: state mean = 0.6/6 = 0.1, next mean = 0.
	table.SetValue(qtable.StateAnomalyScore, remedy.ActionRestart, 0.6)

	update, err := l.Learn(context.Background(),
		qtable.StateAnomalyScore, remedy.ActionRestart, 1, qtable.StateNoFailure)
	if err != nil {
		t.Fatalf("Learn() error = %v", err)
	}

	// tdError = 1 + 0.95*0 - 0.1 = 0.9; Q <- 0.6 + 0.1*0.9 = 0.69
	if math.Abs(update.NewValue-0.69) > 1e-9 {
		t.Errorf("NewValue = %v, want 0.69", update.NewValue)
	}
}

func TestLearnAppendsExperience(t *testing.T) {
	l, _ := newTestLearner(t, AlgorithmQLearning)

	for i := 0; i < 3; i++ {
		if _, err := l.Learn(context.Background(),
			qtable.StateLatencyIssue, remedy.ActionScaleUp, 1, qtable.StateNoFailure); err != nil {
			t.Fatalf("Learn() error = %v", err)
		}
	}

	if got := l.Buffer().Len(); got != 3 {
		t.Errorf("buffer length = %d, want 3", got)
	}
	items := l.Buffer().Items()
	if items[0].State != qtable.StateLatencyIssue || items[0].Action != remedy.ActionScaleUp {
		t.Errorf("buffered experience = %+v", items[0])
	}
}

func TestLearnPublishesUpdates(t *testing.T) {
	l, _ := newTestLearner(t, AlgorithmQLearning)

	var got []Update
	l.Subscribe(func(u Update) { got = append(got, u) })

	want, err := l.Learn(context.Background(),
		qtable.StateDeploymentFailure, remedy.ActionRestart, 1, qtable.StateNoFailure)
	if err != nil {
		t.Fatalf("Learn() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("received %d updates, want 1", len(got))
	}
	if got[0] != want {
		t.Errorf("published update = %+v, want %+v", got[0], want)
	}
	if got[0].Algorithm != AlgorithmQLearning {
		t.Errorf("Algorithm = %q, want %q", got[0].Algorithm, AlgorithmQLearning)
	}
}

func TestLearnHonorsCancellation(t *testing.T) {
	l, table := newTestLearner(t, AlgorithmQLearning)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Learn(ctx, qtable.StateDeploymentFailure, remedy.ActionRestart, 1, qtable.StateNoFailure); err == nil {
		t.Error("Learn() accepted cancelled context")
	}
	if got := table.Value(qtable.StateDeploymentFailure, remedy.ActionRestart); got != 0 {
		t.Errorf("table written after cancellation: %v", got)
	}
}

func TestLearnFromExecution(t *testing.T) {
	tests := []struct {
		name    string
		result  *remedy.ExecutionResult
		verdict Verdict
		want    float64 // expected reward, observable via NewValue = 0.1*reward
	}{
		{"executed", &remedy.ExecutionResult{Status: remedy.StatusExecuted}, VerdictNone, 1},
		{"simulated counts as success", &remedy.ExecutionResult{Status: remedy.StatusSimulated}, VerdictNone, 1},
		{"rejected", &remedy.ExecutionResult{Status: remedy.StatusRejected}, VerdictNone, -1},
		{"failed", &remedy.ExecutionResult{Status: remedy.StatusFailed}, VerdictNone, -1},
		{"missing result", nil, VerdictNone, -1},
		{"executed but rejected by human", &remedy.ExecutionResult{Status: remedy.StatusExecuted}, VerdictRejected, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLearner(t, AlgorithmQLearning)

			update, err := l.LearnFromExecution(context.Background(),
				qtable.StateDeploymentFailure, remedy.ActionRestart, tt.result, tt.verdict)
			if err != nil {
				t.Fatalf("LearnFromExecution() error = %v", err)
			}
			if update.Reward != tt.want {
				t.Errorf("Reward = %v, want %v", update.Reward, tt.want)
			}
		})
	}
}
