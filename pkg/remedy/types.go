package remedy

import "time"

// Environment identifies a deployment environment.
type Environment string

const (
	EnvDev   Environment = "dev"
	EnvStage Environment = "stage"
	EnvProd  Environment = "prod"
)

// Environments returns all valid environments.
func Environments() []Environment {
	return []Environment{EnvDev, EnvStage, EnvProd}
}

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	switch e {
	case EnvDev, EnvStage, EnvProd:
		return true
	}
	return false
}

func (e Environment) String() string { return string(e) }

// HealthState is the coarse application health reported by an observation.
type HealthState string

const (
	HealthHealthy  HealthState = "healthy"
	HealthDegraded HealthState = "degraded"
	HealthCritical HealthState = "critical"
	HealthUnknown  HealthState = "unknown"
)

// Valid reports whether h is a known health state.
func (h HealthState) Valid() bool {
	switch h {
	case HealthHealthy, HealthDegraded, HealthCritical, HealthUnknown:
		return true
	}
	return false
}

func (h HealthState) String() string { return string(h) }

// RuntimeObservation is a snapshot of an application's runtime condition,
// created once per inbound event and never mutated afterwards.
//
// LatencyMs and ErrorCount are pointers because their absence is meaningful:
// a missing metric is not the same as a zero metric.
type RuntimeObservation struct {
	AppID       string
	Environment Environment
	HealthState HealthState
	LatencyMs   *float64
	ErrorCount  *int
	ObservedAt  time.Time
}

// Decision is the outcome of evaluating one observation. It is produced
// exactly once per observation and never mutated after creation.
type Decision struct {
	Action     Action                 `json:"decision"`
	Reason     string                 `json:"reason"`
	Confidence float64                `json:"confidence"`
	ProducedAt time.Time              `json:"-"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// ExecutionRequest asks the gateway to carry out a decided action.
// It is derived one-to-one from a Decision.
type ExecutionRequest struct {
	Action           Action                 `json:"action"`
	AppID            string                 `json:"app"`
	Environment      Environment            `json:"env"`
	RequestedBy      string                 `json:"requested_by"`
	DecisionMetadata map[string]interface{} `json:"decision_metadata"`
}

// ExecutionStatus is the terminal state of an execution attempt.
type ExecutionStatus string

const (
	// StatusExecuted means the action was carried out against infrastructure.
	StatusExecuted ExecutionStatus = "executed"

	// StatusSimulated means simulate mode recorded the action without
	// applying it.
	StatusSimulated ExecutionStatus = "simulated"

	// StatusRejected means validation or allowlist enforcement refused
	// the request.
	StatusRejected ExecutionStatus = "rejected"

	// StatusFailed means the underlying executor reported a failure.
	StatusFailed ExecutionStatus = "failed"
)

// Succeeded reports whether the execution outcome counts as a success for
// reward shaping.
func (s ExecutionStatus) Succeeded() bool {
	return s == StatusExecuted || s == StatusSimulated
}

// ExecutionResult is the gateway's answer to an ExecutionRequest. The same
// shape is returned on every path; only Status and the optional rejection
// fields vary.
type ExecutionResult struct {
	Status          ExecutionStatus        `json:"status"`
	Action          Action                 `json:"action"`
	AppID           string                 `json:"app"`
	Environment     Environment            `json:"env"`
	ExecutionID     string                 `json:"execution_id"`
	Simulated       bool                   `json:"demo_mode"`
	CompletedAt     time.Time              `json:"timestamp"`
	RejectionReason string                 `json:"reason,omitempty"`
	AllowedActions  []Action               `json:"allowed_actions,omitempty"`
	Details         map[string]interface{} `json:"details,omitempty"`
}
