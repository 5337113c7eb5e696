package allowlist

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"aegis-hq/aegis/pkg/remedy"
)

// Policy maps each environment to the set of actions permitted there.
// It is safe for concurrent use; reads vastly outnumber reloads.
type Policy struct {
	mu      sync.RWMutex
	allowed map[remedy.Environment]map[remedy.Action]struct{}
}

// Default returns the built-in allowlist: production permits only restart
// and noop, staging adds scaling, development permits everything.
func Default() *Policy {
	return fromSets(map[remedy.Environment][]remedy.Action{
		remedy.EnvDev: {
			remedy.ActionRestart, remedy.ActionScaleUp, remedy.ActionScaleDown,
			remedy.ActionDeploy, remedy.ActionRollback, remedy.ActionNoop,
		},
		remedy.EnvStage: {
			remedy.ActionRestart, remedy.ActionScaleUp, remedy.ActionScaleDown,
			remedy.ActionNoop,
		},
		remedy.EnvProd: {
			remedy.ActionRestart, remedy.ActionNoop,
		},
	})
}

// policyFile is the on-disk YAML shape: env name -> list of action names.
type policyFile struct {
	Environments map[string][]string `yaml:"environments"`
}

// FromFile loads an allowlist policy from a YAML file. Unknown environments
// or actions are rejected so a typo cannot silently widen the allowlist.
func FromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read allowlist file %q: %w", path, err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse allowlist file %q: %w", path, err)
	}
	if len(file.Environments) == 0 {
		return nil, fmt.Errorf("allowlist file %q defines no environments", path)
	}

	sets := make(map[remedy.Environment][]remedy.Action, len(file.Environments))
	for envName, actionNames := range file.Environments {
		env := remedy.Environment(envName)
		if !env.Valid() {
			return nil, fmt.Errorf("allowlist file %q: unknown environment %q", path, envName)
		}
		actions := make([]remedy.Action, 0, len(actionNames))
		for _, name := range actionNames {
			action := remedy.Action(name)
			if !action.Valid() {
				return nil, fmt.Errorf("allowlist file %q: unknown action %q for environment %q",
					path, name, envName)
			}
			actions = append(actions, action)
		}
		sets[env] = actions
	}

	return fromSets(sets), nil
}

func fromSets(sets map[remedy.Environment][]remedy.Action) *Policy {
	allowed := make(map[remedy.Environment]map[remedy.Action]struct{}, len(sets))
	for env, actions := range sets {
		set := make(map[remedy.Action]struct{}, len(actions))
		for _, a := range actions {
			set[a] = struct{}{}
		}
		allowed[env] = set
	}
	return &Policy{allowed: allowed}
}

// Allowed reports whether action is permitted in env. An environment absent
// from the table permits nothing.
func (p *Policy) Allowed(env remedy.Environment, action remedy.Action) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	set, ok := p.allowed[env]
	if !ok {
		return false
	}
	_, ok = set[action]
	return ok
}

// AllowedActions returns the permitted actions for env, sorted for stable
// diagnostics in rejection responses.
func (p *Policy) AllowedActions(env remedy.Environment) []remedy.Action {
	p.mu.RLock()
	defer p.mu.RUnlock()

	set, ok := p.allowed[env]
	if !ok {
		return nil
	}
	actions := make([]remedy.Action, 0, len(set))
	for a := range set {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// Replace atomically swaps the policy contents with those of other.
// Used by the file watcher on reload.
func (p *Policy) Replace(other *Policy) {
	other.mu.RLock()
	next := make(map[remedy.Environment]map[remedy.Action]struct{}, len(other.allowed))
	for env, set := range other.allowed {
		copied := make(map[remedy.Action]struct{}, len(set))
		for a := range set {
			copied[a] = struct{}{}
		}
		next[env] = copied
	}
	other.mu.RUnlock()

	p.mu.Lock()
	p.allowed = next
	p.mu.Unlock()
}
