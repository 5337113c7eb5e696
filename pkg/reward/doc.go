// Package reward turns execution outcomes and human feedback into value-table
// updates.
//
// The learner is the only writer of the value table. Updates are serialized
// through its mutex, appended to the bounded experience buffer, and published
// to subscribers so monitoring can observe learning as it happens.
package reward
