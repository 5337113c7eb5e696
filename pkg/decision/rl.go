package decision

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/remedy"
)

// RL decision reason tags.
const (
	ReasonExploration  = "rl_exploration"
	ReasonExploitation = "rl_exploitation"
)

// Exploration schedule defaults. Serving deployments hold epsilon fixed;
// training deployments start higher and decay geometrically toward the floor
// after each learning update.
const (
	DefaultServingEpsilon  = 0.1
	DefaultTrainingEpsilon = 0.2
	EpsilonDecay           = 0.995
	EpsilonFloor           = 0.01
)

// RLEngine is the adaptive strategy: it classifies the observation into a
// policy state and picks an action from the learned value table, exploring
// with probability epsilon.
//
// Stage observations never explore. Stage is the promotion environment and
// its runs must be reproducible, so the engine always exploits there.
type RLEngine struct {
	table      *qtable.Table
	thresholds Thresholds
	trainMode  bool

	mu      sync.Mutex
	epsilon float64
	rng     *rand.Rand
}

// RLOption configures an RLEngine.
type RLOption func(*RLEngine)

// WithEpsilon overrides the starting exploration rate.
func WithEpsilon(epsilon float64) RLOption {
	return func(e *RLEngine) { e.epsilon = epsilon }
}

// WithTrainMode enables training behavior: a decaying exploration rate and a
// preference for actions the table has never valued.
func WithTrainMode(train bool) RLOption {
	return func(e *RLEngine) {
		e.trainMode = train
		if train {
			e.epsilon = DefaultTrainingEpsilon
		}
	}
}

// WithRandSource fixes the random source, for tests.
func WithRandSource(src rand.Source) RLOption {
	return func(e *RLEngine) { e.rng = rand.New(src) }
}

// NewRLEngine returns an adaptive engine reading from table.
func NewRLEngine(table *qtable.Table, thresholds Thresholds, opts ...RLOption) *RLEngine {
	e := &RLEngine{
		table:      table,
		thresholds: thresholds,
		epsilon:    DefaultServingEpsilon,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *RLEngine) Name() string { return "rl" }

// Epsilon returns the current exploration rate.
func (e *RLEngine) Epsilon() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epsilon
}

// Decay shrinks the exploration rate geometrically toward the floor. The
// learner calls it after each update in training mode; it is a no-op
// otherwise.
func (e *RLEngine) Decay() {
	if !e.trainMode {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epsilon *= EpsilonDecay
	if e.epsilon < EpsilonFloor {
		e.epsilon = EpsilonFloor
	}
}

// Decide maps the observation to a policy state and selects an action:
// exploration with probability epsilon, otherwise the argmax action with
// ties broken by declared action order.
func (e *RLEngine) Decide(ctx context.Context, obs *remedy.RuntimeObservation) (*remedy.Decision, error) {
	if reason := validateObservation(obs); reason != "" {
		return noopDecision(reason, nil), nil
	}

	state := MapState(obs, e.thresholds)

	action, explored := e.selectAction(state, obs.Environment)

	reason := ReasonExploitation
	confidence := 0.8
	if explored {
		reason = ReasonExploration
		confidence = 0.5
	}

	return &remedy.Decision{
		Action:     action,
		Reason:     reason,
		Confidence: confidence,
		ProducedAt: time.Now(),
		Metadata: map[string]interface{}{
			"strategy": e.Name(),
			"app":      obs.AppID,
			"env":      obs.Environment.String(),
			"state":    string(state),
			"epsilon":  e.Epsilon(),
			"q_value":  e.table.Value(state, action),
		},
	}, nil
}

func (e *RLEngine) selectAction(state qtable.StateID, env remedy.Environment) (remedy.Action, bool) {
	if env == remedy.EnvStage {
		action, _ := e.table.BestAction(state)
		return action, false
	}

	// Training prioritizes coverage: any action the table has never
	// valued is tried before the explore/exploit roll.
	if e.trainMode {
		if untrained := e.table.UntrainedActions(state); len(untrained) > 0 {
			return e.pick(untrained), true
		}
	}

	e.mu.Lock()
	explore := e.rng.Float64() < e.epsilon
	e.mu.Unlock()

	if !explore {
		action, _ := e.table.BestAction(state)
		return action, false
	}
	return e.pick(e.table.Actions()), true
}

func (e *RLEngine) pick(actions []remedy.Action) remedy.Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	return actions[e.rng.Intn(len(actions))]
}
