package remedy

// Action identifies a remediation action the pipeline may take.
type Action string

const (
	// ActionRestart restarts the application's workers.
	ActionRestart Action = "restart"

	// ActionScaleUp adds workers to absorb load.
	ActionScaleUp Action = "scale_up"

	// ActionScaleDown removes excess workers.
	ActionScaleDown Action = "scale_down"

	// ActionDeploy deploys the latest registered build.
	ActionDeploy Action = "deploy"

	// ActionRollback restores the previously deployed build.
	ActionRollback Action = "rollback"

	// ActionNoop takes no action. This is the universal safe default:
	// every validation failure and every degraded pipeline outcome
	// resolves to it.
	ActionNoop Action = "noop"
)

// Actions returns all known actions in declared order. The order is
// significant: argmax ties in the adaptive policy are broken by it.
func Actions() []Action {
	return []Action{
		ActionRestart,
		ActionScaleUp,
		ActionScaleDown,
		ActionDeploy,
		ActionRollback,
		ActionNoop,
	}
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, known := range Actions() {
		if a == known {
			return true
		}
	}
	return false
}

func (a Action) String() string { return string(a) }
