// Package handlers implements the HTTP endpoints of the remediation
// pipeline: the orchestrated event entrypoint, direct access to the decision
// engine and execution gateway, the feedback adapter, policy introspection,
// and the health probes.
package handlers
