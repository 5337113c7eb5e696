package reward

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/remedy"
	"aegis-hq/aegis/pkg/telemetry/metrics"
)

// Update rule identifiers, stored alongside the persisted table.
const (
	AlgorithmQLearning   = "q_learning"
	AlgorithmDoubleQ     = "double_q"
	AlgorithmActorCritic = "actor_critic"
)

// Algorithms returns the known update rules.
func Algorithms() []string {
	return []string{AlgorithmQLearning, AlgorithmDoubleQ, AlgorithmActorCritic}
}

// Update is the observable record of one value-table write.
type Update struct {
	State     qtable.StateID `json:"state"`
	Action    remedy.Action  `json:"action"`
	Reward    float64        `json:"reward"`
	NewValue  float64        `json:"new_value"`
	Algorithm string         `json:"algorithm"`
}

// Subscriber receives each update after it is committed. Subscribers run
// synchronously under the learner's update lock; keep them fast.
type Subscriber func(Update)

// Learner applies the configured update rule to the value table. It is the
// table's single writer: all updates funnel through its mutex, so two events
// learning about the same state cannot lose writes.
type Learner struct {
	table     *qtable.Table
	buffer    *qtable.ExperienceBuffer
	algorithm string
	alpha     float64
	gamma     float64
	logger    *slog.Logger

	mu          sync.Mutex
	subscribers []Subscriber

	metrics *metrics.LearningMetrics
}

// LearnerOption configures a Learner.
type LearnerOption func(*Learner)

// WithLearningMetrics attaches the learning metric group.
func WithLearningMetrics(lm *metrics.LearningMetrics) LearnerOption {
	return func(l *Learner) { l.metrics = lm }
}

// NewLearner constructs a learner for table using the named update rule.
func NewLearner(table *qtable.Table, algorithm string, alpha, gamma float64, bufferSize int, logger *slog.Logger, opts ...LearnerOption) (*Learner, error) {
	switch algorithm {
	case AlgorithmQLearning, AlgorithmDoubleQ, AlgorithmActorCritic:
	default:
		return nil, fmt.Errorf("unknown learning algorithm %q", algorithm)
	}

	l := &Learner{
		table:     table,
		buffer:    qtable.NewExperienceBuffer(bufferSize),
		algorithm: algorithm,
		alpha:     alpha,
		gamma:     gamma,
		logger:    logger.With(slog.String("component", "learner")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Algorithm returns the configured update rule identifier.
func (l *Learner) Algorithm() string { return l.algorithm }

// Buffer exposes the experience buffer for introspection.
func (l *Learner) Buffer() *qtable.ExperienceBuffer { return l.buffer }

// Subscribe registers fn to receive every committed update.
func (l *Learner) Subscribe(fn Subscriber) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Learn applies one reward observation to Q(state, action) and returns the
// committed update. The next state is qtable.StateNoFailure for immediate
// decision cycles. No write occurs if ctx is already cancelled.
func (l *Learner) Learn(ctx context.Context, state qtable.StateID, action remedy.Action, rewardValue float64, nextState qtable.StateID) (Update, error) {
	if err := ctx.Err(); err != nil {
		return Update{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	newValue := l.applyRule(state, action, rewardValue, nextState)

	l.buffer.Append(qtable.Experience{
		State:     state,
		Action:    action,
		Reward:    rewardValue,
		NextState: nextState,
	})

	update := Update{
		State:     state,
		Action:    action,
		Reward:    rewardValue,
		NewValue:  newValue,
		Algorithm: l.algorithm,
	}

	if l.metrics != nil {
		l.metrics.RecordUpdate(l.algorithm, string(state), action.String(), rewardValue, newValue)
		l.metrics.SetBufferSize(l.buffer.Len())
	}
	l.logger.Debug("value updated",
		slog.String("state", string(state)),
		slog.String("action", action.String()),
		slog.Float64("reward", rewardValue),
		slog.Float64("new_value", newValue),
		slog.String("algorithm", l.algorithm))

	for _, fn := range l.subscribers {
		fn(update)
	}

	return update, nil
}

// LearnFromExecution shapes a reward from an execution result and commits it.
func (l *Learner) LearnFromExecution(ctx context.Context, state qtable.StateID, action remedy.Action, result *remedy.ExecutionResult, verdict Verdict) (Update, error) {
	succeeded := result != nil && result.Status.Succeeded()
	return l.Learn(ctx, state, action, Shape(succeeded, verdict), qtable.StateNoFailure)
}

// applyRule performs the read-modify-write for the configured algorithm.
// Caller holds l.mu.
func (l *Learner) applyRule(state qtable.StateID, action remedy.Action, reward float64, nextState qtable.StateID) float64 {
	current := l.table.Value(state, action)

	var next float64
	switch l.algorithm {
	case AlgorithmQLearning:
		// Zero-discount single step: nextState is terminal for the
		// immediate decision cycle.
		next = current + l.alpha*(reward-current)

	case AlgorithmDoubleQ:
		target := reward + l.gamma*l.table.MaxValue(nextState)
		next = current + l.alpha*(target-current)

	case AlgorithmActorCritic:
		tdError := reward + l.gamma*l.table.MeanValue(nextState) - l.table.MeanValue(state)
		next = current + l.alpha*tdError
	}

	l.table.SetValue(state, action, next)
	return next
}
