// Package decision turns a runtime observation into a candidate remediation
// action.
//
// Two interchangeable strategies implement the same Engine interface: a
// deterministic rule table and an adaptive tabular policy backed by the
// learned value table in pkg/policy/qtable. Both emit the identical Decision
// shape so the orchestrator is strategy-agnostic, and neither ever fails:
// every malformed observation resolves to a noop decision carrying a reason
// tag naming the failing check.
package decision
