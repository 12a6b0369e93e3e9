package rules

import (
	"uclint/internal/diag"
	"uclint/internal/symbols"
)

var nonEmptyTooltipDescriptor = diag.Descriptor{
	ID:               diag.NonEmptyTooltip,
	Title:            "Tooltip attribute must contain a description of the field.",
	MessageFormat:    "Tooltip attribute of '{0}' has an empty string where there should be a description of the field.",
	Category:         diag.CategoryUsage,
	DefaultSeverity:  diag.SevWarning,
	EnabledByDefault: true,
	Description:      "Replace the empty string with a description of the field.",
}

// NonEmptyTooltipRule reports a description attribute whose first argument
// is the empty string. A missing or non-string argument does not fire.
type NonEmptyTooltipRule struct{}

func (NonEmptyTooltipRule) Descriptor() diag.Descriptor { return nonEmptyTooltipDescriptor }

func (NonEmptyTooltipRule) Evaluate(env *Env, decl *symbols.Declaration) (diag.Diagnostic, bool) {
	if !eligible(env, decl, wantPrivate) {
		return diag.Diagnostic{}, false
	}
	tooltip, ok := symbols.FirstAnnotation(decl, env.Description)
	if !ok {
		return diag.Diagnostic{}, false
	}
	if text, ok := tooltip.StringArg(0); !ok || text != "" {
		return diag.Diagnostic{}, false
	}
	return nonEmptyTooltipDescriptor.New(decl.Location, decl.Name), true
}
