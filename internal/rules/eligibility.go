package rules

import (
	"uclint/internal/symbols"
)

type access uint8

const (
	wantPrivate access = iota
	wantNonPrivate
)

// eligible runs the shared filter chain and short-circuits on the first
// filter that excludes decl.
func eligible(env *Env, decl *symbols.Declaration, want access) bool {
	switch {
	case decl == nil || env == nil:
		return false
	case decl.Static:
		return false
	case decl.Const:
		return false
	case decl.ReadOnly:
		return false
	case want == wantPrivate && decl.Visibility != symbols.VisibilityPrivate:
		return false
	case want == wantNonPrivate && decl.Visibility == symbols.VisibilityPrivate:
		return false
	case decl.Owner == nil:
		return false
	case !env.Behavior.Matches(decl.Owner):
		return false
	}
	return true
}
