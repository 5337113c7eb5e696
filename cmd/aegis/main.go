// Aegis is a runtime remediation decision pipeline.
//
// It receives runtime events (health state, latency, error counts) and
// drives each one through a decision engine and an allowlist-guarded
// execution gateway, with bounded timeouts and a safe noop fallback at every
// failure point. An optional tabular reinforcement-learning policy adapts
// decisions from execution outcomes and human feedback.
//
// Usage:
//
//	# Start the pipeline with default configuration
//	aegis run
//
//	# Start with a custom configuration file
//	aegis run --config /etc/aegis/config.yaml
//
//	# Validate configuration without starting
//	aegis validate
//
//	# Inspect the learned policy
//	aegis qtable --format json
//
//	# Show version information
//	aegis version
package main

func main() {
	Execute()
}
