package rules

import (
	"uclint/internal/diag"
	"uclint/internal/symbols"
)

// Override adjusts one rule. Nil fields keep the descriptor's default.
type Override struct {
	Enabled  *bool
	Severity *diag.Severity
}

// Engine runs the enabled rules of a registry over declarations.
type Engine struct {
	env       *Env
	registry  *Registry
	overrides map[diag.Code]Override
	active    []Rule
}

// NewEngine prepares an engine. Overrides for unknown codes are ignored.
func NewEngine(env *Env, registry *Registry, overrides map[diag.Code]Override) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	e := &Engine{env: env, registry: registry, overrides: overrides}
	for _, rule := range registry.rules {
		if e.Enabled(rule.Descriptor().ID) {
			e.active = append(e.active, rule)
		}
	}
	return e
}

func (e *Engine) Env() *Env { return e.env }

func (e *Engine) Registry() *Registry { return e.registry }

// Enabled reports the effective enable flag of code.
func (e *Engine) Enabled(code diag.Code) bool {
	rule, ok := e.registry.Get(code)
	if !ok {
		return false
	}
	if o, ok := e.overrides[code]; ok && o.Enabled != nil {
		return *o.Enabled
	}
	return rule.Descriptor().EnabledByDefault
}

// Severity reports the effective severity of code.
func (e *Engine) Severity(code diag.Code) diag.Severity {
	if o, ok := e.overrides[code]; ok && o.Severity != nil {
		return *o.Severity
	}
	if rule, ok := e.registry.Get(code); ok {
		return rule.Descriptor().DefaultSeverity
	}
	return diag.SevWarning
}

// Analyze evaluates every active rule against every declaration.
func (e *Engine) Analyze(decls []*symbols.Declaration) []diag.Diagnostic {
	var out []diag.Diagnostic
	e.each(decls, func(d diag.Diagnostic) { out = append(out, d) })
	return out
}

// Run is Analyze streaming into a reporter.
func (e *Engine) Run(decls []*symbols.Declaration, r diag.Reporter) {
	if r == nil {
		return
	}
	e.each(decls, r.Report)
}

func (e *Engine) each(decls []*symbols.Declaration, emit func(diag.Diagnostic)) {
	for _, decl := range decls {
		for _, rule := range e.active {
			d, ok := rule.Evaluate(e.env, decl)
			if !ok {
				continue
			}
			if o, has := e.overrides[d.Code]; has && o.Severity != nil {
				d = d.WithSeverity(*o.Severity)
			}
			emit(d)
		}
	}
}
