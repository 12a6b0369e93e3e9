package rules

import (
	"uclint/internal/diag"
	"uclint/internal/symbols"
)

var hasTooltipDescriptor = diag.Descriptor{
	ID:               diag.HasTooltip,
	Title:            "Private field marked with SerializeField attribute must also have a Tooltip attribute.",
	MessageFormat:    "Private field '{0}' is marked with SerializeField attribute but has no Tooltip attribute.",
	Category:         diag.CategoryUsage,
	DefaultSeverity:  diag.SevWarning,
	EnabledByDefault: true,
	Description:      "Add [Tooltip(\"description\")] to the field.",
}

// HasTooltipRule reports private serialized fields without a description
// attribute. It attaches no properties.
type HasTooltipRule struct{}

func (HasTooltipRule) Descriptor() diag.Descriptor { return hasTooltipDescriptor }

func (HasTooltipRule) Evaluate(env *Env, decl *symbols.Declaration) (diag.Diagnostic, bool) {
	if !eligible(env, decl, wantPrivate) {
		return diag.Diagnostic{}, false
	}
	if !symbols.HasAnnotation(decl, env.Expose) {
		return diag.Diagnostic{}, false
	}
	if symbols.HasAnnotation(decl, env.Description) {
		return diag.Diagnostic{}, false
	}
	return hasTooltipDescriptor.New(decl.Location, decl.Name), true
}
