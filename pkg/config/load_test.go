package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Pipeline.DecisionTimeout != 3*time.Second {
		t.Errorf("DecisionTimeout = %v, want 3s", cfg.Pipeline.DecisionTimeout)
	}
	if cfg.Pipeline.ExecutionTimeout != 3*time.Second {
		t.Errorf("ExecutionTimeout = %v, want 3s", cfg.Pipeline.ExecutionTimeout)
	}
	if cfg.Decision.Strategy != "rules" {
		t.Errorf("Strategy = %q, want rules", cfg.Decision.Strategy)
	}
	if cfg.Learning.Algorithm != "q_learning" {
		t.Errorf("Algorithm = %q, want q_learning", cfg.Learning.Algorithm)
	}
	if cfg.Learning.Alpha != 0.1 || cfg.Learning.Gamma != 0.95 {
		t.Errorf("hyperparameters = (%v, %v), want (0.1, 0.95)", cfg.Learning.Alpha, cfg.Learning.Gamma)
	}
	if cfg.Learning.BufferSize != 1000 {
		t.Errorf("BufferSize = %d, want 1000", cfg.Learning.BufferSize)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
pipeline:
  decision_timeout: 5s
decision:
  strategy: rl
gateway:
  simulate: true
learning:
  algorithm: double_q
  backend: memory
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q, want 0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.Pipeline.DecisionTimeout != 5*time.Second {
		t.Errorf("DecisionTimeout = %v, want 5s", cfg.Pipeline.DecisionTimeout)
	}
	// Unset fields still get defaults.
	if cfg.Pipeline.ExecutionTimeout != DefaultExecutionTimeout {
		t.Errorf("ExecutionTimeout = %v, want default %v", cfg.Pipeline.ExecutionTimeout, DefaultExecutionTimeout)
	}
	if cfg.Decision.Strategy != "rl" {
		t.Errorf("Strategy = %q, want rl", cfg.Decision.Strategy)
	}
	if !cfg.Gateway.Simulate {
		t.Error("Simulate = false, want true")
	}
	if cfg.Learning.Algorithm != "double_q" {
		t.Errorf("Algorithm = %q, want double_q", cfg.Learning.Algorithm)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadConfig() expected error for missing file, got nil")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("AEGIS_SERVER_LISTEN_ADDRESS", "127.0.0.1:7070")
	t.Setenv("AEGIS_DECISION_TIMEOUT_SECONDS", "7")
	t.Setenv("AEGIS_GATEWAY_SIMULATE", "true")
	t.Setenv("AEGIS_LEARNING_ALGORITHM", "actor_critic")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:7070" {
		t.Errorf("ListenAddress = %q, want 127.0.0.1:7070", cfg.Server.ListenAddress)
	}
	if cfg.Pipeline.DecisionTimeout != 7*time.Second {
		t.Errorf("DecisionTimeout = %v, want 7s", cfg.Pipeline.DecisionTimeout)
	}
	if !cfg.Gateway.Simulate {
		t.Error("Simulate = false, want true")
	}
	if cfg.Learning.Algorithm != "actor_critic" {
		t.Errorf("Algorithm = %q, want actor_critic", cfg.Learning.Algorithm)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	t.Setenv("AEGIS_DECISION_STRATEGY", "neural")

	if _, err := LoadConfigWithEnvOverrides(""); err == nil {
		t.Fatal("expected validation error for invalid strategy override, got nil")
	}
}
