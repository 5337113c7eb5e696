// Package orchestrator drives one event through the decision and execution
// stages with bounded timeouts.
//
// Its central contract is that a caller always receives a well-formed
// EventResult: every downstream failure, including a timeout or a panic, is
// folded into a degraded result carrying the noop fallback. No event can
// block indefinitely and no internal error escapes as anything other than
// data.
package orchestrator
