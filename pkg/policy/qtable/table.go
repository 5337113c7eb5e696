package qtable

import (
	"sync"
	"time"

	"aegis-hq/aegis/pkg/remedy"
)

// StateID identifies an abnormal-condition class the policy can learn about.
type StateID string

const (
	// StateDeploymentFailure covers critical health reports.
	StateDeploymentFailure StateID = "deployment_failure"

	// StateLatencyIssue covers observations with latency above threshold.
	StateLatencyIssue StateID = "latency_issue"

	// StateAnomalyScore covers observations with elevated error counts.
	StateAnomalyScore StateID = "anomaly_score"

	// StateAnomalyHealth covers degraded or unknown health without a more
	// specific signal.
	StateAnomalyHealth StateID = "anomaly_health"

	// StateNoFailure is the terminal state assumed after an immediate
	// decision cycle, and the state mapped from healthy observations.
	StateNoFailure StateID = "no_failure"
)

// States returns the fixed state space in declared order.
func States() []StateID {
	return []StateID{
		StateDeploymentFailure,
		StateLatencyIssue,
		StateAnomalyScore,
		StateAnomalyHealth,
		StateNoFailure,
	}
}

// Snapshot is a point-in-time copy of the table, used for persistence and
// introspection.
type Snapshot struct {
	Algorithm string
	Values    map[StateID]map[remedy.Action]float64
	SavedAt   time.Time
}

// Table is the learned value table. It is safe for concurrent use: decision
// reads take a shared lock, learner writes take the exclusive lock.
type Table struct {
	mu      sync.RWMutex
	states  []StateID
	actions []remedy.Action
	values  map[StateID]map[remedy.Action]float64
}

// New returns a table zero-initialized over the full state x action grid.
func New() *Table {
	t := &Table{
		states:  States(),
		actions: remedy.Actions(),
		values:  make(map[StateID]map[remedy.Action]float64),
	}
	for _, s := range t.states {
		t.values[s] = zeroRow(t.actions)
	}
	return t
}

func zeroRow(actions []remedy.Action) map[remedy.Action]float64 {
	row := make(map[remedy.Action]float64, len(actions))
	for _, a := range actions {
		row[a] = 0
	}
	return row
}

// Actions returns the action space in declared order.
func (t *Table) Actions() []remedy.Action {
	return t.actions
}

// Value returns Q(state, action). Unknown states read as zero; the row is
// not created until a write touches it.
func (t *Table) Value(state StateID, action remedy.Action) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.values[state]
	if !ok {
		return 0
	}
	return row[action]
}

// SetValue writes Q(state, action), creating the state's row if needed.
func (t *Table) SetValue(state StateID, action remedy.Action, value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.values[state]
	if !ok {
		row = zeroRow(t.actions)
		t.values[state] = row
	}
	row[action] = value
}

// BestAction returns the argmax action for state and its value. Ties are
// broken by declared action order.
func (t *Table) BestAction(state StateID) (remedy.Action, float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row := t.values[state]
	best := t.actions[0]
	bestValue := row[best]
	for _, a := range t.actions[1:] {
		if row[a] > bestValue {
			best = a
			bestValue = row[a]
		}
	}
	return best, bestValue
}

// MaxValue returns max over actions of Q(state, .).
func (t *Table) MaxValue(state StateID) float64 {
	_, v := t.BestAction(state)
	return v
}

// MeanValue returns the mean of Q(state, .) over the action space.
func (t *Table) MeanValue(state StateID) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row := t.values[state]
	if len(t.actions) == 0 {
		return 0
	}
	var sum float64
	for _, a := range t.actions {
		sum += row[a]
	}
	return sum / float64(len(t.actions))
}

// UntrainedActions returns the actions whose value for state is exactly zero,
// in declared order. Training mode prefers these for exploration.
func (t *Table) UntrainedActions(state StateID) []remedy.Action {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row := t.values[state]
	var untrained []remedy.Action
	for _, a := range t.actions {
		if row[a] == 0 {
			untrained = append(untrained, a)
		}
	}
	return untrained
}

// EnsureState adds a zero-initialized row for state if absent.
func (t *Table) EnsureState(state StateID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.values[state]; !ok {
		t.values[state] = zeroRow(t.actions)
		t.states = append(t.states, state)
	}
}

// Snapshot returns a deep copy of the table contents.
func (t *Table) Snapshot() *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	values := make(map[StateID]map[remedy.Action]float64, len(t.values))
	for s, row := range t.values {
		copied := make(map[remedy.Action]float64, len(row))
		for a, v := range row {
			copied[a] = v
		}
		values[s] = copied
	}
	return &Snapshot{Values: values, SavedAt: time.Now()}
}

// Restore overwrites table contents from a snapshot. Declared states missing
// from the snapshot keep zero rows; extra persisted states are kept, never
// dropped.
func (t *Table) Restore(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for s, row := range snapshot.Values {
		dst, ok := t.values[s]
		if !ok {
			dst = zeroRow(t.actions)
			t.values[s] = dst
			t.states = append(t.states, s)
		}
		for _, a := range t.actions {
			if v, ok := row[a]; ok {
				dst[a] = v
			}
		}
	}
}
