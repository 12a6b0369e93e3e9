package symbols

// IsOrInherits reports whether current is target or derives from it, comparing
// nodes by reference. The walk stops with false at a root, at an unresolved
// base, or when a node repeats (malformed cyclic input).
func IsOrInherits(current, target *TypeNode) bool {
	if target == nil {
		return false
	}
	return walk(current, func(t *TypeNode) bool { return t == target })
}

// IsOrInheritsByName is IsOrInherits with component-wise identity comparison,
// for graphs built from different compiled references.
func IsOrInheritsByName(current *TypeNode, target TypeIdentity) bool {
	return walk(current, func(t *TypeNode) bool { return t.id.Equal(target) })
}

func walk(current *TypeNode, match func(*TypeNode) bool) bool {
	visited := make(map[*TypeNode]struct{}, 8)
	for t := current; t != nil; t = t.Base() {
		if match(t) {
			return true
		}
		if _, seen := visited[t]; seen {
			return false
		}
		visited[t] = struct{}{}
	}
	return false
}

// Target is a configured framework type (a base class or an attribute).
// Node is nil when the type is not present in the analysed universe.
type Target struct {
	Identity TypeIdentity
	Node     *TypeNode
}

// Matches reports whether t is or derives from the target. Reference identity
// is used when both nodes live in the same universe; otherwise the comparison
// falls back to identity components.
func (tg Target) Matches(t *TypeNode) bool {
	if t == nil {
		return false
	}
	if tg.Node != nil && tg.Node.universe() == t.universe() {
		return IsOrInherits(t, tg.Node)
	}
	return IsOrInheritsByName(t, tg.Identity)
}
