package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20

	DefaultDecisionTimeout  = 3 * time.Second
	DefaultExecutionTimeout = 3 * time.Second
	DefaultMaxInFlight      = 64

	DefaultStrategy            = "rules"
	DefaultErrorCountThreshold = 10
	DefaultLatencyThresholdMs  = 5000

	DefaultAlgorithm  = "q_learning"
	DefaultAlpha      = 0.1
	DefaultGamma      = 0.95
	DefaultEpsilon    = 0.1
	DefaultBufferSize = 1000
	DefaultBackend    = "sqlite"
	DefaultStorePath  = "aegis_qtable.db"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultNamespace = "aegis"

	DefaultTracingServiceName = "aegis"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingTimeout     = 10 * time.Second
)

// DefaultConfig returns a configuration with every field set to its default.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	if cfg.Pipeline.DecisionTimeout == 0 {
		cfg.Pipeline.DecisionTimeout = DefaultDecisionTimeout
	}
	if cfg.Pipeline.ExecutionTimeout == 0 {
		cfg.Pipeline.ExecutionTimeout = DefaultExecutionTimeout
	}
	if cfg.Pipeline.MaxInFlight == 0 {
		cfg.Pipeline.MaxInFlight = DefaultMaxInFlight
	}

	if cfg.Decision.Strategy == "" {
		cfg.Decision.Strategy = DefaultStrategy
	}
	if cfg.Decision.ErrorCountThreshold == 0 {
		cfg.Decision.ErrorCountThreshold = DefaultErrorCountThreshold
	}
	if cfg.Decision.LatencyThresholdMs == 0 {
		cfg.Decision.LatencyThresholdMs = DefaultLatencyThresholdMs
	}

	if cfg.Learning.Algorithm == "" {
		cfg.Learning.Algorithm = DefaultAlgorithm
	}
	if cfg.Learning.Alpha == 0 {
		cfg.Learning.Alpha = DefaultAlpha
	}
	if cfg.Learning.Gamma == 0 {
		cfg.Learning.Gamma = DefaultGamma
	}
	if cfg.Learning.Epsilon == 0 {
		cfg.Learning.Epsilon = DefaultEpsilon
	}
	if cfg.Learning.BufferSize == 0 {
		cfg.Learning.BufferSize = DefaultBufferSize
	}
	if cfg.Learning.Backend == "" {
		cfg.Learning.Backend = DefaultBackend
	}
	if cfg.Learning.StorePath == "" {
		cfg.Learning.StorePath = DefaultStorePath
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultNamespace
	}

	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}
