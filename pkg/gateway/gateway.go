package gateway

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"aegis-hq/aegis/pkg/policy/allowlist"
	"aegis-hq/aegis/pkg/remedy"
)

// Rejection reason tags.
const (
	ReasonEmptyRequest       = "invalid_input_empty_payload"
	ReasonMissingAction      = "missing_required_field_action"
	ReasonMissingApp         = "missing_required_field_app"
	ReasonMissingEnv         = "missing_required_field_env"
	ReasonMissingRequestedBy = "missing_required_field_requested_by"
	ReasonInvalidEnvironment = "invalid_environment"
	ReasonOutOfScope         = "action_out_of_scope"
	ReasonExecutionFailed    = "execution_failed"
)

// Gateway validates and dispatches execution requests. All paths return an
// ExecutionResult and a nil error; the error slot exists for transport-level
// implementations of the same contract.
type Gateway struct {
	policy   *allowlist.Policy
	executor Executor
	simulate bool
	logger   *slog.Logger
}

// New constructs a gateway. When simulate is true, allowed actions are
// recorded but never reach the executor.
func New(policy *allowlist.Policy, executor Executor, simulate bool, logger *slog.Logger) *Gateway {
	return &Gateway{
		policy:   policy,
		executor: executor,
		simulate: simulate,
		logger:   logger.With(slog.String("component", "gateway")),
	}
}

// Simulating reports whether the gateway is in simulate mode. The flag is
// fixed at construction and never mutable per request.
func (g *Gateway) Simulating() bool { return g.simulate }

// Execute validates req, enforces the allowlist, and carries out or
// simulates the action.
func (g *Gateway) Execute(ctx context.Context, req *remedy.ExecutionRequest) (*remedy.ExecutionResult, error) {
	if reason := validateRequest(req); reason != "" {
		g.logger.Warn("execution request rejected",
			slog.String("reason", reason))
		return g.reject(req, reason, nil), nil
	}

	if !req.Environment.Valid() {
		g.logger.Warn("execution request rejected",
			slog.String("reason", ReasonInvalidEnvironment),
			slog.String("env", req.Environment.String()))
		return g.reject(req, ReasonInvalidEnvironment, nil), nil
	}

	if !g.policy.Allowed(req.Environment, req.Action) {
		allowed := g.policy.AllowedActions(req.Environment)
		g.logger.Warn("action not permitted in environment",
			slog.String("action", req.Action.String()),
			slog.String("env", req.Environment.String()))
		return g.reject(req, ReasonOutOfScope, allowed), nil
	}

	result := &remedy.ExecutionResult{
		Action:      req.Action,
		AppID:       req.AppID,
		Environment: req.Environment,
		ExecutionID: newExecutionID(),
		Simulated:   g.simulate,
		CompletedAt: time.Now().UTC(),
	}

	if g.simulate {
		result.Status = remedy.StatusSimulated
		g.logger.Info("action simulated",
			slog.String("execution_id", result.ExecutionID),
			slog.String("action", req.Action.String()),
			slog.String("app", req.AppID),
			slog.String("env", req.Environment.String()))
		return result, nil
	}

	details, err := g.executor.Execute(ctx, req)
	if err != nil {
		result.Status = remedy.StatusFailed
		result.RejectionReason = ReasonExecutionFailed
		result.Details = map[string]interface{}{"error": err.Error()}
		g.logger.Error("action execution failed",
			slog.String("execution_id", result.ExecutionID),
			slog.String("action", req.Action.String()),
			slog.String("app", req.AppID),
			slog.String("error", err.Error()))
		return result, nil
	}

	result.Status = remedy.StatusExecuted
	result.Details = details
	g.logger.Info("action executed",
		slog.String("execution_id", result.ExecutionID),
		slog.String("action", req.Action.String()),
		slog.String("app", req.AppID),
		slog.String("env", req.Environment.String()))
	return result, nil
}

// validateRequest runs the fixed check sequence; the first failing check
// wins. Presence and non-blankness are folded together per field.
func validateRequest(req *remedy.ExecutionRequest) string {
	if req == nil {
		return ReasonEmptyRequest
	}
	if req.Action == "" && req.AppID == "" && req.Environment == "" && req.RequestedBy == "" {
		return ReasonEmptyRequest
	}
	if strings.TrimSpace(req.Action.String()) == "" {
		return ReasonMissingAction
	}
	if strings.TrimSpace(req.AppID) == "" {
		return ReasonMissingApp
	}
	if strings.TrimSpace(req.Environment.String()) == "" {
		return ReasonMissingEnv
	}
	if strings.TrimSpace(req.RequestedBy) == "" {
		return ReasonMissingRequestedBy
	}
	return ""
}

func (g *Gateway) reject(req *remedy.ExecutionRequest, reason string, allowed []remedy.Action) *remedy.ExecutionResult {
	result := &remedy.ExecutionResult{
		Status:          remedy.StatusRejected,
		ExecutionID:     newExecutionID(),
		Simulated:       g.simulate,
		CompletedAt:     time.Now().UTC(),
		RejectionReason: reason,
		AllowedActions:  allowed,
	}
	if req != nil {
		result.Action = req.Action
		result.AppID = req.AppID
		result.Environment = req.Environment
	}
	return result
}

func newExecutionID() string {
	return "exec_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
