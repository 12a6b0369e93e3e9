package symbols

import "fmt"

// BaseState describes the base link of a TypeNode.
type BaseState uint8

const (
	// BaseAbsent marks a root type.
	BaseAbsent BaseState = iota
	// BaseResolved means Base() returns the parent node.
	BaseResolved
	// BaseUnresolved means the parent lives in a module that could not be
	// located; MissingBase() names it.
	BaseUnresolved
)

func (s BaseState) String() string {
	switch s {
	case BaseAbsent:
		return "absent"
	case BaseResolved:
		return "resolved"
	case BaseUnresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("BaseState(%d)", uint8(s))
	}
}

// TypeNode is a declared type with at most one base type.
type TypeNode struct {
	id      TypeIdentity
	module  *Module
	state   BaseState
	base    *TypeNode
	missing TypeIdentity
}

// NewType creates a node outside of any module. Such nodes are handy for
// synthetic graphs; nodes that belong to a module come from Module.Declare.
func NewType(id TypeIdentity) *TypeNode {
	return &TypeNode{id: id}
}

func (t *TypeNode) Identity() TypeIdentity { return t.id }

// Module returns the declaring module, nil for nodes made by NewType.
func (t *TypeNode) Module() *Module { return t.module }

// BaseState reports which of the three base states the node is in.
func (t *TypeNode) BaseState() BaseState { return t.state }

// Base returns the resolved parent, or nil.
func (t *TypeNode) Base() *TypeNode {
	if t.state != BaseResolved {
		return nil
	}
	return t.base
}

// MissingBase returns the identity of an unresolved parent.
func (t *TypeNode) MissingBase() (TypeIdentity, bool) {
	return t.missing, t.state == BaseUnresolved
}

// SetBase links t to base. A nil base makes t a root.
// Panics once the owning universe is sealed.
func (t *TypeNode) SetBase(base *TypeNode) {
	t.mustBeMutable()
	t.missing = TypeIdentity{}
	if base == nil {
		t.state, t.base = BaseAbsent, nil
		return
	}
	t.state, t.base = BaseResolved, base
}

// SetUnresolvedBase records that t derives from a type nobody could locate.
func (t *TypeNode) SetUnresolvedBase(id TypeIdentity) {
	t.mustBeMutable()
	t.state, t.base, t.missing = BaseUnresolved, nil, id
}

func (t *TypeNode) String() string {
	return t.id.String()
}

func (t *TypeNode) universe() *Universe {
	if t == nil || t.module == nil {
		return nil
	}
	return t.module.universe
}

func (t *TypeNode) mustBeMutable() {
	if u := t.universe(); u != nil && u.sealed {
		panic(fmt.Sprintf("symbols: %s modified after universe was sealed", t.id))
	}
}
