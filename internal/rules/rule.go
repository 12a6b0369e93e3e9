package rules

import (
	"fmt"

	"uclint/internal/diag"
	"uclint/internal/symbols"
)

// Rule yields at most one diagnostic per declaration. Implementations hold
// no mutable state and may be called concurrently.
type Rule interface {
	Descriptor() diag.Descriptor
	Evaluate(env *Env, decl *symbols.Declaration) (diag.Diagnostic, bool)
}

// Registry keeps rules in registration order, one per code.
type Registry struct {
	rules []Rule
	index map[diag.Code]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[diag.Code]int)}
}

// DefaultRegistry returns a registry with every built-in rule.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range []Rule{HasTooltipRule{}, NonEmptyTooltipRule{}, PrivateFieldRule{}} {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds rule. A second rule with the same code is rejected.
func (r *Registry) Register(rule Rule) error {
	code := rule.Descriptor().ID
	if code == diag.UnknownCode {
		return fmt.Errorf("rules: rule without id")
	}
	if _, dup := r.index[code]; dup {
		return fmt.Errorf("rules: duplicate rule id %q", code)
	}
	r.index[code] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

func (r *Registry) Get(code diag.Code) (Rule, bool) {
	i, ok := r.index[code]
	if !ok {
		return nil, false
	}
	return r.rules[i], true
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Descriptors returns the descriptors of all registered rules.
func (r *Registry) Descriptors() []diag.Descriptor {
	out := make([]diag.Descriptor, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule.Descriptor())
	}
	return out
}
