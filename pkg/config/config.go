package config

import "time"

// Config is the root configuration for the aegis service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Decision  DecisionConfig  `yaml:"decision"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Learning  LearningConfig  `yaml:"learning"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// ListenAddress is the host:port the server binds to.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// PipelineConfig configures the event orchestrator.
type PipelineConfig struct {
	// DecisionTimeout bounds the decision engine call. Exceeding it is
	// not fatal; the event degrades to the noop fallback.
	DecisionTimeout time.Duration `yaml:"decision_timeout"`

	// ExecutionTimeout bounds the execution gateway call.
	ExecutionTimeout time.Duration `yaml:"execution_timeout"`

	// MaxInFlight caps concurrently processed events. Callers beyond the
	// cap wait, honoring their own context deadline; nothing is dropped.
	MaxInFlight int `yaml:"max_in_flight"`
}

// DecisionConfig selects and tunes the decision strategy.
type DecisionConfig struct {
	// Strategy is "rules" (deterministic rule table) or "rl" (adaptive
	// tabular policy).
	Strategy string `yaml:"strategy"`

	// ErrorCountThreshold is the rule-table restart threshold.
	ErrorCountThreshold int `yaml:"error_count_threshold"`

	// LatencyThresholdMs is the rule-table scale-up threshold.
	LatencyThresholdMs float64 `yaml:"latency_threshold_ms"`
}

// GatewayConfig configures the execution gateway.
type GatewayConfig struct {
	// Simulate selects simulate mode for the whole process. It is fixed
	// at startup and never mutable per request.
	Simulate bool `yaml:"simulate"`

	// AllowlistPath points at the YAML allowlist policy file. Empty means
	// the built-in default allowlist.
	AllowlistPath string `yaml:"allowlist_path"`

	// WatchAllowlist enables hot reload of the allowlist file.
	WatchAllowlist bool `yaml:"watch_allowlist"`
}

// LearningConfig tunes the reward adapter and the policy store.
type LearningConfig struct {
	// Enabled turns execution-outcome learning on. Only meaningful with
	// the "rl" decision strategy.
	Enabled bool `yaml:"enabled"`

	// Algorithm is one of "q_learning", "double_q", "actor_critic".
	Algorithm string `yaml:"algorithm"`

	// Alpha is the learning rate.
	Alpha float64 `yaml:"alpha"`

	// Gamma is the discount factor used by the bootstrapped rules.
	Gamma float64 `yaml:"gamma"`

	// Epsilon is the exploration probability in serving mode.
	Epsilon float64 `yaml:"epsilon"`

	// TrainMode starts exploration higher and decays it after each update.
	TrainMode bool `yaml:"train_mode"`

	// BufferSize caps the experience replay buffer (FIFO eviction).
	BufferSize int `yaml:"buffer_size"`

	// Backend is "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// StorePath is the SQLite database path for the learned table.
	StorePath string `yaml:"store_path"`

	// CheckpointSchedule is a cron expression for periodic persistence
	// of the learned table. Empty disables scheduled checkpoints; the
	// table is still saved on shutdown.
	CheckpointSchedule string `yaml:"checkpoint_schedule"`
}

// TelemetryConfig configures logging, metrics, and tracing.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	// Enabled controls whether spans are recorded and exported.
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies this process in exported traces.
	ServiceName string `yaml:"service_name"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS on the collector connection.
	Insecure bool `yaml:"insecure"`

	// Sampler is "always", "never", or "ratio".
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces kept when Sampler is "ratio".
	SampleRatio float64 `yaml:"sample_ratio"`

	// Timeout bounds each export call.
	Timeout time.Duration `yaml:"timeout"`
}
