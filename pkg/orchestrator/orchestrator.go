package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"aegis-hq/aegis/pkg/decision"
	"aegis-hq/aegis/pkg/remedy"
	"aegis-hq/aegis/pkg/telemetry/metrics"
	"aegis-hq/aegis/pkg/telemetry/tracing"
)

// Status is the terminal outcome of one event.
type Status string

const (
	// StatusProcessed means both stages completed without fallback.
	StatusProcessed Status = "processed"

	// StatusDegraded means at least one stage fell back to the safe default.
	StatusDegraded Status = "degraded"
)

// ReasonDependencyUnavailable tags fallback decisions substituted when a
// downstream stage failed.
const ReasonDependencyUnavailable = "dependency_unavailable"

// Executor is the execution stage contract. *gateway.Gateway satisfies it.
type Executor interface {
	Execute(ctx context.Context, req *remedy.ExecutionRequest) (*remedy.ExecutionResult, error)
}

// OutcomeHook observes each completed event. Hooks run synchronously after
// the execution stage; the reward adapter registers one to learn from
// outcomes.
type OutcomeHook func(obs *remedy.RuntimeObservation, d *remedy.Decision, result *remedy.ExecutionResult)

// EventResult is the orchestrator's answer for one event. All failure modes
// are expressed through Status, Error, and Fallback; the shape is identical
// on every path.
type EventResult struct {
	Status             Status                  `json:"status"`
	EventID            string                  `json:"event_id"`
	AgentDecision      *remedy.Decision        `json:"agent_decision"`
	OrchestratorResult *remedy.ExecutionResult `json:"orchestrator_result,omitempty"`
	Error              string                  `json:"error,omitempty"`
	Fallback           string                  `json:"fallback,omitempty"`
}

// Orchestrator runs the two-stage pipeline. Each event is independent; the
// only shared state lives behind the decision engine's value table.
type Orchestrator struct {
	engine           decision.Engine
	executor         Executor
	decisionTimeout  time.Duration
	executionTimeout time.Duration
	sem              chan struct{}
	hooks            []OutcomeHook
	logger           *slog.Logger
	metrics          *metrics.Collector
	tracer           *tracing.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOutcomeHook registers a hook invoked after every execution stage.
func WithOutcomeHook(hook OutcomeHook) Option {
	return func(o *Orchestrator) { o.hooks = append(o.hooks, hook) }
}

// WithMetrics attaches the metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(o *Orchestrator) { o.metrics = collector }
}

// WithTracer attaches the tracer. Each event gets a span with decision and
// execution child spans.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = tracer }
}

// New constructs an orchestrator. maxInFlight bounds concurrent events;
// callers beyond the bound wait, honoring their context deadline.
func New(engine decision.Engine, executor Executor, decisionTimeout, executionTimeout time.Duration, maxInFlight int, logger *slog.Logger, opts ...Option) *Orchestrator {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	o := &Orchestrator{
		engine:           engine,
		executor:         executor,
		decisionTimeout:  decisionTimeout,
		executionTimeout: executionTimeout,
		sem:              make(chan struct{}, maxInFlight),
		logger:           logger.With(slog.String("component", "orchestrator")),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessEvent drives one observation through decision and execution. It
// never returns an error; every failure is folded into the result.
func (o *Orchestrator) ProcessEvent(ctx context.Context, obs *remedy.RuntimeObservation) *EventResult {
	eventID := newEventID()
	started := time.Now()

	select {
	case o.sem <- struct{}{}:
		defer func() { <-o.sem }()
	case <-ctx.Done():
		return o.degradedBeforeDecision(eventID, &StageError{
			Stage: "decision",
			Kind:  classify(ctx.Err()),
			Cause: ctx.Err(),
		})
	}

	if o.metrics != nil {
		o.metrics.Pipeline.EventStarted()
		defer o.metrics.Pipeline.EventFinished()
	}

	result := o.process(ctx, eventID, obs)

	if o.metrics != nil {
		o.metrics.Pipeline.RecordEvent(string(result.Status), time.Since(started))
	}
	o.logger.Info("event complete",
		slog.String("event_id", eventID),
		slog.String("status", string(result.Status)),
		slog.String("action", result.AgentDecision.Action.String()),
		slog.Duration("elapsed", time.Since(started)))

	return result
}

func (o *Orchestrator) process(ctx context.Context, eventID string, obs *remedy.RuntimeObservation) *EventResult {
	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "pipeline.event")
		tracing.SetObservationAttributes(span, eventID, obs.AppID, obs.Environment.String())
		defer span.End()
	}

	result := &EventResult{
		Status:  StatusProcessed,
		EventID: eventID,
	}

	decisionStart := time.Now()
	decided, err := o.decide(ctx, obs)
	if err != nil {
		stageErr := &StageError{Stage: "decision", Kind: classify(err), Cause: err}
		o.recordFallback(stageErr)
		if span != nil {
			tracing.SetFailureAttributes(span, stageErr.Stage, string(stageErr.Kind))
		}
		decided = fallbackDecision(stageErr)
		result.Status = StatusDegraded
		result.Error = stageErr.Error()
		result.Fallback = remedy.ActionNoop.String()
	}
	result.AgentDecision = decided

	if o.metrics != nil {
		o.metrics.Decisions.RecordDecision(
			o.engine.Name(), decided.Action.String(), decided.Reason,
			time.Since(decisionStart))
	}

	req := &remedy.ExecutionRequest{
		Action:           decided.Action,
		AppID:            obs.AppID,
		Environment:      obs.Environment,
		RequestedBy:      "orchestrator",
		DecisionMetadata: decided.Metadata,
	}

	executionStart := time.Now()
	execResult, err := o.execute(ctx, req)
	if err != nil {
		stageErr := &StageError{Stage: "execution", Kind: classify(err), Cause: err}
		o.recordFallback(stageErr)
		if span != nil {
			tracing.SetFailureAttributes(span, stageErr.Stage, string(stageErr.Kind))
		}
		result.Status = StatusDegraded
		result.Error = stageErr.Error()
		result.Fallback = remedy.ActionNoop.String()
	} else {
		result.OrchestratorResult = execResult
		if o.metrics != nil {
			o.metrics.Execution.RecordExecution(
				execResult.Action.String(), execResult.Environment.String(),
				string(execResult.Status), time.Since(executionStart))
			if execResult.Status == remedy.StatusRejected {
				o.metrics.Execution.RecordRejection(
					execResult.Environment.String(), execResult.RejectionReason)
			}
		}
	}

	for _, hook := range o.hooks {
		hook(obs, decided, result.OrchestratorResult)
	}

	if span != nil {
		tracing.SetEventStatus(span, string(result.Status))
	}
	return result
}

// decide runs the decision stage under its timeout. The engine call runs in
// its own goroutine so a stuck engine cannot hold the event past the
// ceiling; a panicking engine is folded into an unexpected_error fallback.
func (o *Orchestrator) decide(ctx context.Context, obs *remedy.RuntimeObservation) (*remedy.Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, o.decisionTimeout)
	defer cancel()

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "pipeline.decide")
		defer span.End()
	}

	type outcome struct {
		decided *remedy.Decision
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: &panicError{value: r}}
			}
		}()
		d, err := o.engine.Decide(ctx, obs)
		done <- outcome{decided: d, err: err}
	}()

	select {
	case out := <-done:
		if span != nil {
			if out.err != nil {
				tracing.RecordFailure(span, out.err)
			} else {
				tracing.SetDecisionAttributes(span,
					out.decided.Action.String(), out.decided.Reason, out.decided.Confidence)
			}
		}
		return out.decided, out.err
	case <-ctx.Done():
		if span != nil {
			tracing.RecordFailure(span, ctx.Err())
		}
		return nil, ctx.Err()
	}
}

// execute runs the execution stage under its timeout, with the same
// isolation as decide.
func (o *Orchestrator) execute(ctx context.Context, req *remedy.ExecutionRequest) (*remedy.ExecutionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.executionTimeout)
	defer cancel()

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "pipeline.execute")
		defer span.End()
	}

	type outcome struct {
		result *remedy.ExecutionResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: &panicError{value: r}}
			}
		}()
		result, err := o.executor.Execute(ctx, req)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		if span != nil {
			if out.err != nil {
				tracing.RecordFailure(span, out.err)
			} else {
				tracing.SetExecutionAttributes(span,
					string(out.result.Status), out.result.ExecutionID)
			}
		}
		return out.result, out.err
	case <-ctx.Done():
		if span != nil {
			tracing.RecordFailure(span, ctx.Err())
		}
		return nil, ctx.Err()
	}
}

func (o *Orchestrator) degradedBeforeDecision(eventID string, stageErr *StageError) *EventResult {
	o.recordFallback(stageErr)
	return &EventResult{
		Status:        StatusDegraded,
		EventID:       eventID,
		AgentDecision: fallbackDecision(stageErr),
		Error:         stageErr.Error(),
		Fallback:      remedy.ActionNoop.String(),
	}
}

func (o *Orchestrator) recordFallback(stageErr *StageError) {
	if o.metrics != nil {
		o.metrics.Pipeline.RecordFallback(stageErr.Stage, string(stageErr.Kind))
	}
	o.logger.Warn("stage degraded to fallback",
		slog.String("stage", stageErr.Stage),
		slog.String("kind", string(stageErr.Kind)),
		slog.String("error", stageErr.Cause.Error()))
}

// fallbackDecision is the safe default substituted for a failed stage.
func fallbackDecision(stageErr *StageError) *remedy.Decision {
	return &remedy.Decision{
		Action:     remedy.ActionNoop,
		Reason:     ReasonDependencyUnavailable,
		Confidence: 0,
		ProducedAt: time.Now(),
		Metadata: map[string]interface{}{
			"failure_stage": stageErr.Stage,
			"failure_kind":  string(stageErr.Kind),
		},
	}
}

func newEventID() string {
	return "evt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
