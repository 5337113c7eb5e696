package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// ErrInvalidConfig is the sentinel every validation failure wraps.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration for consistency. It is called after
// defaults are applied, so zero values it sees are deliberate.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("%w: server.listen_address cannot be empty", ErrInvalidConfig)
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("%w: server.read_timeout must be positive", ErrInvalidConfig)
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("%w: server.write_timeout must be positive", ErrInvalidConfig)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig)
	}

	if cfg.Pipeline.DecisionTimeout <= 0 {
		return fmt.Errorf("%w: pipeline.decision_timeout must be positive", ErrInvalidConfig)
	}
	if cfg.Pipeline.ExecutionTimeout <= 0 {
		return fmt.Errorf("%w: pipeline.execution_timeout must be positive", ErrInvalidConfig)
	}
	if cfg.Pipeline.MaxInFlight <= 0 {
		return fmt.Errorf("%w: pipeline.max_in_flight must be positive", ErrInvalidConfig)
	}

	switch cfg.Decision.Strategy {
	case "rules", "rl":
	default:
		return fmt.Errorf("%w: decision.strategy must be \"rules\" or \"rl\", got %q",
			ErrInvalidConfig, cfg.Decision.Strategy)
	}
	if cfg.Decision.ErrorCountThreshold < 0 {
		return fmt.Errorf("%w: decision.error_count_threshold cannot be negative", ErrInvalidConfig)
	}
	if cfg.Decision.LatencyThresholdMs < 0 {
		return fmt.Errorf("%w: decision.latency_threshold_ms cannot be negative", ErrInvalidConfig)
	}

	switch cfg.Learning.Algorithm {
	case "q_learning", "double_q", "actor_critic":
	default:
		return fmt.Errorf("%w: learning.algorithm must be one of q_learning, double_q, actor_critic, got %q",
			ErrInvalidConfig, cfg.Learning.Algorithm)
	}
	if cfg.Learning.Alpha <= 0 || cfg.Learning.Alpha > 1 {
		return fmt.Errorf("%w: learning.alpha must be in (0, 1]", ErrInvalidConfig)
	}
	if cfg.Learning.Gamma < 0 || cfg.Learning.Gamma > 1 {
		return fmt.Errorf("%w: learning.gamma must be in [0, 1]", ErrInvalidConfig)
	}
	if cfg.Learning.Epsilon < 0 || cfg.Learning.Epsilon > 1 {
		return fmt.Errorf("%w: learning.epsilon must be in [0, 1]", ErrInvalidConfig)
	}
	if cfg.Learning.BufferSize <= 0 {
		return fmt.Errorf("%w: learning.buffer_size must be positive", ErrInvalidConfig)
	}
	switch cfg.Learning.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("%w: learning.backend must be \"sqlite\" or \"memory\", got %q",
			ErrInvalidConfig, cfg.Learning.Backend)
	}
	if cfg.Learning.Backend == "sqlite" && cfg.Learning.StorePath == "" {
		return fmt.Errorf("%w: learning.store_path cannot be empty with the sqlite backend", ErrInvalidConfig)
	}
	if cfg.Learning.CheckpointSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Learning.CheckpointSchedule); err != nil {
			return fmt.Errorf("%w: learning.checkpoint_schedule is not a valid cron expression: %v",
				ErrInvalidConfig, err)
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: telemetry.logging.level must be one of debug, info, warn, error, got %q",
			ErrInvalidConfig, cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: telemetry.logging.format must be \"json\" or \"text\", got %q",
			ErrInvalidConfig, cfg.Telemetry.Logging.Format)
	}

	if cfg.Telemetry.Tracing.Enabled {
		switch cfg.Telemetry.Tracing.Sampler {
		case "always", "never", "ratio":
		default:
			return fmt.Errorf("%w: telemetry.tracing.sampler must be one of always, never, ratio, got %q",
				ErrInvalidConfig, cfg.Telemetry.Tracing.Sampler)
		}
		if cfg.Telemetry.Tracing.SampleRatio < 0 || cfg.Telemetry.Tracing.SampleRatio > 1 {
			return fmt.Errorf("%w: telemetry.tracing.sample_ratio must be in [0, 1]", ErrInvalidConfig)
		}
		if cfg.Telemetry.Tracing.Endpoint == "" {
			return fmt.Errorf("%w: telemetry.tracing.endpoint cannot be empty when tracing is enabled",
				ErrInvalidConfig)
		}
	}

	return nil
}
