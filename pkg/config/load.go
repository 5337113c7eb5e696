package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. An empty path yields pure defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// AEGIS_* environment variable overrides. Environment variables always take
// precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies AEGIS_SECTION_FIELD environment overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("AEGIS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("AEGIS_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Per-call timeouts accept whole seconds, matching the deployment
	// convention of the surrounding tooling.
	if val := os.Getenv("AEGIS_DECISION_TIMEOUT_SECONDS"); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			cfg.Pipeline.DecisionTimeout = time.Duration(secs) * time.Second
		}
	}
	if val := os.Getenv("AEGIS_EXECUTION_TIMEOUT_SECONDS"); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			cfg.Pipeline.ExecutionTimeout = time.Duration(secs) * time.Second
		}
	}
	if val := os.Getenv("AEGIS_PIPELINE_MAX_IN_FLIGHT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Pipeline.MaxInFlight = n
		}
	}

	if val := os.Getenv("AEGIS_DECISION_STRATEGY"); val != "" {
		cfg.Decision.Strategy = val
	}

	if val := os.Getenv("AEGIS_GATEWAY_SIMULATE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Gateway.Simulate = b
		}
	}
	if val := os.Getenv("AEGIS_GATEWAY_ALLOWLIST_PATH"); val != "" {
		cfg.Gateway.AllowlistPath = val
	}

	if val := os.Getenv("AEGIS_LEARNING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Learning.Enabled = b
		}
	}
	if val := os.Getenv("AEGIS_LEARNING_ALGORITHM"); val != "" {
		cfg.Learning.Algorithm = val
	}
	if val := os.Getenv("AEGIS_LEARNING_TRAIN_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Learning.TrainMode = b
		}
	}
	if val := os.Getenv("AEGIS_LEARNING_STORE_PATH"); val != "" {
		cfg.Learning.StorePath = val
	}
	if val := os.Getenv("AEGIS_LEARNING_BACKEND"); val != "" {
		cfg.Learning.Backend = val
	}

	if val := os.Getenv("AEGIS_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("AEGIS_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("AEGIS_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("AEGIS_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("AEGIS_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}
