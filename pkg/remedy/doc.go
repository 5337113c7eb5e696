// Package remedy defines the core domain types shared across the pipeline:
// actions, environments, health states, runtime observations, decisions,
// execution requests, and execution results.
//
// Types in this package are plain data. A RuntimeObservation is created once
// per inbound event and never mutated; a Decision is produced exactly once
// per observation; an ExecutionRequest is derived one-to-one from a Decision.
// Validation of these types lives with the components that consume them
// (pkg/decision, pkg/gateway), not here.
package remedy
