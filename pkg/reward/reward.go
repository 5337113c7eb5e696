package reward

// Verdict is an optional human judgment of a pipeline outcome.
type Verdict string

const (
	// VerdictNone means no human feedback was supplied.
	VerdictNone Verdict = ""

	// VerdictAccepted confirms the action was appropriate.
	VerdictAccepted Verdict = "accepted"

	// VerdictRejected marks the action as wrong regardless of whether it
	// succeeded mechanically.
	VerdictRejected Verdict = "rejected"
)

// Valid reports whether v is a known verdict.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictNone, VerdictAccepted, VerdictRejected:
		return true
	}
	return false
}

// Shape computes the scalar reward for one outcome. Success earns +1,
// failure -1; an accepted verdict adds +1, a rejected verdict forces -1
// overriding the base value.
func Shape(succeeded bool, verdict Verdict) float64 {
	reward := -1.0
	if succeeded {
		reward = 1.0
	}

	switch verdict {
	case VerdictAccepted:
		reward += 1.0
	case VerdictRejected:
		reward = -1.0
	}
	return reward
}
