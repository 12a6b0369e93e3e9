package rules

import (
	"strconv"

	"uclint/internal/diag"
	"uclint/internal/symbols"
)

// PropHasSerializeField is set by PrivateFieldRule to "true" or "false": whether
// the field already carried the expose attribute when it was diagnosed. The
// make-private fix adds the attribute only when this is "false".
const PropHasSerializeField = "hasSerializeFieldAttribute"

var privateFieldDescriptor = diag.Descriptor{
	ID:               diag.PrivateField,
	Title:            "Field must be private.",
	MessageFormat:    "Field '{0}' is not private. Use properties or methods if you need to expose the value.",
	Category:         diag.CategoryDesign,
	DefaultSeverity:  diag.SevWarning,
	EnabledByDefault: true,
	Description:      "Make the field private.",
}

// PrivateFieldRule reports instance fields of behaviours that are not private.
type PrivateFieldRule struct{}

func (PrivateFieldRule) Descriptor() diag.Descriptor { return privateFieldDescriptor }

func (PrivateFieldRule) Evaluate(env *Env, decl *symbols.Declaration) (diag.Diagnostic, bool) {
	if !eligible(env, decl, wantNonPrivate) {
		return diag.Diagnostic{}, false
	}
	exposed := symbols.HasAnnotation(decl, env.Expose)
	d := privateFieldDescriptor.New(decl.Location, decl.Name).
		WithProperty(PropHasSerializeField, strconv.FormatBool(exposed))
	return d, true
}
