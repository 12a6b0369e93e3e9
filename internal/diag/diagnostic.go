package diag

import (
	"maps"
	"strconv"

	"uclint/internal/source"
)

// Properties carries fix-relevant state from a rule to its fix.
type Properties map[string]string

// Get returns the value stored under key.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Bool parses the value under key with strconv.ParseBool. ok is false when
// the key is missing or the value is not a boolean.
func (p Properties) Bool(key string) (value, ok bool) {
	raw, found := p[key]
	if !found {
		return false, false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return b, true
}

// FixSuggestion is what a host shows for an available fix. Fixes with equal
// EquivalenceKey can be applied together.
type FixSuggestion struct {
	Title          string
	EquivalenceKey string
}

type Diagnostic struct {
	Severity   Severity
	Code       Code
	Category   Category
	Message    string
	Args       []string
	Primary    source.Span
	Properties Properties
	Fixes      []FixSuggestion
}

// Name returns the declaration name the diagnostic was reported for.
func (d Diagnostic) Name() string {
	if len(d.Args) == 0 {
		return ""
	}
	return d.Args[0]
}

// WithProperty returns a copy of d with key set to value.
func (d Diagnostic) WithProperty(key, value string) Diagnostic {
	props := make(Properties, len(d.Properties)+1)
	maps.Copy(props, d.Properties)
	props[key] = value
	d.Properties = props
	return d
}

// WithSeverity returns a copy of d with the given severity.
func (d Diagnostic) WithSeverity(sev Severity) Diagnostic {
	d.Severity = sev
	return d
}

// WithFixSuggestion returns a copy of d listing one more fix.
func (d Diagnostic) WithFixSuggestion(fix FixSuggestion) Diagnostic {
	fixes := make([]FixSuggestion, 0, len(d.Fixes)+1)
	fixes = append(fixes, d.Fixes...)
	d.Fixes = append(fixes, fix)
	return d
}
