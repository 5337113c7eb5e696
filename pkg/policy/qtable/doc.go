// Package qtable owns the learned value table behind the adaptive decision
// strategy: one float per (state, action) pair over a small fixed state space.
//
// The table always holds an entry (possibly zero) for every state x action
// pair the policy may query; unseen states are added zero-initialized, never
// dropped. It is created at process start, loaded from persisted form or
// zero-initialized, mutated only through the reward learner, and persisted at
// controlled checkpoints rather than on every update.
package qtable
