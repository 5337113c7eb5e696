package orchestrator

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/remedy"
	"aegis-hq/aegis/pkg/telemetry/logging"
	"aegis-hq/aegis/pkg/telemetry/tracing"
)

type stubEngine struct {
	decision *remedy.Decision
	delay    time.Duration
	panics   bool
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Decide(ctx context.Context, obs *remedy.RuntimeObservation) (*remedy.Decision, error) {
	if s.panics {
		panic("engine blew up")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.decision, nil
}

type stubExecutor struct {
	mu      sync.Mutex
	results []*remedy.ExecutionResult
	delay   time.Duration
	panics  bool
	calls   atomic.Int64
}

func (s *stubExecutor) Execute(ctx context.Context, req *remedy.ExecutionRequest) (*remedy.ExecutionResult, error) {
	s.calls.Add(1)
	if s.panics {
		panic("executor blew up")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	result := &remedy.ExecutionResult{
		Status:      remedy.StatusExecuted,
		Action:      req.Action,
		AppID:       req.AppID,
		Environment: req.Environment,
		ExecutionID: "exec_test",
		CompletedAt: time.Now(),
	}
	s.mu.Lock()
	s.results = append(s.results, result)
	s.mu.Unlock()
	return result, nil
}

func restartDecision() *remedy.Decision {
	return &remedy.Decision{
		Action:     remedy.ActionRestart,
		Reason:     "state_critical",
		Confidence: 0.9,
		ProducedAt: time.Now(),
		Metadata:   map[string]interface{}{},
	}
}

func testObservation() *remedy.RuntimeObservation {
	return &remedy.RuntimeObservation{
		AppID:       "checkout",
		Environment: remedy.EnvProd,
		HealthState: remedy.HealthCritical,
	}
}

func TestProcessEventHappyPath(t *testing.T) {
	engine := &stubEngine{decision: restartDecision()}
	exec := &stubExecutor{}
	o := New(engine, exec, time.Second, time.Second, 4, logging.Discard())

	got := o.ProcessEvent(context.Background(), testObservation())

	if got.Status != StatusProcessed {
		t.Errorf("Status = %q, want processed", got.Status)
	}
	if !strings.HasPrefix(got.EventID, "evt_") {
		t.Errorf("EventID = %q, want evt_ prefix", got.EventID)
	}
	if got.AgentDecision.Action != remedy.ActionRestart {
		t.Errorf("decision action = %q, want restart", got.AgentDecision.Action)
	}
	if got.OrchestratorResult == nil {
		t.Fatal("OrchestratorResult nil on processed event")
	}
	if got.OrchestratorResult.Status != remedy.StatusExecuted {
		t.Errorf("execution status = %q, want executed", got.OrchestratorResult.Status)
	}
	if got.Error != "" || got.Fallback != "" {
		t.Errorf("Error = %q, Fallback = %q on processed event", got.Error, got.Fallback)
	}
}

func TestProcessEventWithTracer(t *testing.T) {
	tracer, err := tracing.New(&config.TracingConfig{
		Enabled:     true,
		Sampler:     tracing.SamplerAlways,
		Endpoint:    "localhost:4317",
		Insecure:    true,
		ServiceName: "test",
	})
	if err != nil {
		t.Fatalf("tracing.New() error = %v", err)
	}
	defer tracer.Shutdown(context.Background())

	engine := &stubEngine{decision: restartDecision()}
	exec := &stubExecutor{}
	o := New(engine, exec, time.Second, time.Second, 4, logging.Discard(),
		WithTracer(tracer))

	got := o.ProcessEvent(context.Background(), testObservation())

	if got.Status != StatusProcessed {
		t.Errorf("Status = %q, want processed", got.Status)
	}
	if got.OrchestratorResult == nil {
		t.Fatal("OrchestratorResult nil on processed event")
	}

	// Degraded path must also survive span handling.
	slow := &stubEngine{decision: restartDecision(), delay: 200 * time.Millisecond}
	o = New(slow, exec, 20*time.Millisecond, time.Second, 4, logging.Discard(),
		WithTracer(tracer))

	got = o.ProcessEvent(context.Background(), testObservation())
	if got.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", got.Status)
	}
}

func TestProcessEventDecisionTimeout(t *testing.T) {
	timeout := 50 * time.Millisecond
	engine := &stubEngine{decision: restartDecision(), delay: time.Second}
	exec := &stubExecutor{}
	o := New(engine, exec, timeout, time.Second, 4, logging.Discard())

	started := time.Now()
	got := o.ProcessEvent(context.Background(), testObservation())
	elapsed := time.Since(started)

	if elapsed > timeout+200*time.Millisecond {
		t.Errorf("ProcessEvent took %v, want under %v", elapsed, timeout+200*time.Millisecond)
	}
	if got.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", got.Status)
	}
	if got.AgentDecision.Action != remedy.ActionNoop {
		t.Errorf("fallback action = %q, want noop", got.AgentDecision.Action)
	}
	if got.AgentDecision.Reason != ReasonDependencyUnavailable {
		t.Errorf("fallback reason = %q, want %q", got.AgentDecision.Reason, ReasonDependencyUnavailable)
	}
	if got.Fallback != "noop" {
		t.Errorf("Fallback = %q, want noop", got.Fallback)
	}
	if !strings.Contains(got.Error, "timeout") {
		t.Errorf("Error = %q, want timeout cause named", got.Error)
	}
}

func TestProcessEventDecisionTimeoutStillExecutesFallback(t *testing.T) {
	engine := &stubEngine{decision: restartDecision(), delay: time.Second}
	exec := &stubExecutor{}
	o := New(engine, exec, 20*time.Millisecond, time.Second, 4, logging.Discard())

	got := o.ProcessEvent(context.Background(), testObservation())

	if exec.calls.Load() != 1 {
		t.Errorf("executor called %d times, want 1 (fallback noop execution)", exec.calls.Load())
	}
	if got.OrchestratorResult == nil {
		t.Fatal("OrchestratorResult nil; expected executed noop fallback")
	}
	if got.OrchestratorResult.Action != remedy.ActionNoop {
		t.Errorf("executed action = %q, want noop", got.OrchestratorResult.Action)
	}
}

func TestProcessEventEnginePanic(t *testing.T) {
	engine := &stubEngine{panics: true}
	exec := &stubExecutor{}
	o := New(engine, exec, time.Second, time.Second, 4, logging.Discard())

	got := o.ProcessEvent(context.Background(), testObservation())

	if got.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", got.Status)
	}
	if !strings.Contains(got.Error, "unexpected_error") {
		t.Errorf("Error = %q, want unexpected_error kind", got.Error)
	}
	if got.AgentDecision.Action != remedy.ActionNoop {
		t.Errorf("fallback action = %q, want noop", got.AgentDecision.Action)
	}
}

func TestProcessEventExecutionTimeout(t *testing.T) {
	engine := &stubEngine{decision: restartDecision()}
	exec := &stubExecutor{delay: time.Second}
	o := New(engine, exec, time.Second, 30*time.Millisecond, 4, logging.Discard())

	got := o.ProcessEvent(context.Background(), testObservation())

	if got.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", got.Status)
	}
	if got.AgentDecision.Action != remedy.ActionRestart {
		t.Errorf("decision action = %q, want restart preserved", got.AgentDecision.Action)
	}
	if got.OrchestratorResult != nil {
		t.Error("OrchestratorResult set despite execution timeout")
	}
	if !strings.Contains(got.Error, "execution") || !strings.Contains(got.Error, "timeout") {
		t.Errorf("Error = %q, want execution timeout named", got.Error)
	}
}

func TestProcessEventExecutorPanic(t *testing.T) {
	engine := &stubEngine{decision: restartDecision()}
	exec := &stubExecutor{panics: true}
	o := New(engine, exec, time.Second, time.Second, 4, logging.Discard())

	got := o.ProcessEvent(context.Background(), testObservation())

	if got.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", got.Status)
	}
	if !strings.Contains(got.Error, "execution") {
		t.Errorf("Error = %q, want execution stage named", got.Error)
	}
}

func TestProcessEventCancelledContext(t *testing.T) {
	engine := &stubEngine{decision: restartDecision(), delay: time.Second}
	exec := &stubExecutor{}
	o := New(engine, exec, 5*time.Second, time.Second, 4, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	started := time.Now()
	got := o.ProcessEvent(ctx, testObservation())

	if time.Since(started) > time.Second {
		t.Errorf("cancellation not honored promptly (%v)", time.Since(started))
	}
	if got.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", got.Status)
	}
}

func TestProcessEventConcurrencyBound(t *testing.T) {
	engine := &stubEngine{decision: restartDecision(), delay: 50 * time.Millisecond}
	exec := &stubExecutor{}
	o := New(engine, exec, time.Second, time.Second, 2, logging.Discard())

	var wg sync.WaitGroup
	results := make([]*EventResult, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.ProcessEvent(context.Background(), testObservation())
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.Status != StatusProcessed {
			t.Errorf("event %d: Status = %q, want processed", i, r.Status)
		}
	}

	ids := make(map[string]bool, len(results))
	for _, r := range results {
		if ids[r.EventID] {
			t.Errorf("duplicate event ID %q", r.EventID)
		}
		ids[r.EventID] = true
	}
}

func TestOutcomeHookInvoked(t *testing.T) {
	engine := &stubEngine{decision: restartDecision()}
	exec := &stubExecutor{}

	var hooked atomic.Int64
	o := New(engine, exec, time.Second, time.Second, 4, logging.Discard(),
		WithOutcomeHook(func(obs *remedy.RuntimeObservation, d *remedy.Decision, result *remedy.ExecutionResult) {
			hooked.Add(1)
			if d.Action != remedy.ActionRestart {
				t.Errorf("hook decision action = %q, want restart", d.Action)
			}
			if result == nil || result.Status != remedy.StatusExecuted {
				t.Error("hook result missing or not executed")
			}
		}))

	o.ProcessEvent(context.Background(), testObservation())

	if hooked.Load() != 1 {
		t.Errorf("hook invoked %d times, want 1", hooked.Load())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"deadline", context.DeadlineExceeded, FailureTimeout},
		{"protocol", &ProtocolError{Detail: "bad payload"}, FailureProtocol},
		{"panic", &panicError{value: "boom"}, FailureUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
