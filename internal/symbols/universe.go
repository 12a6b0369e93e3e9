package symbols

import (
	"golang.org/x/text/cases"
)

// Module is a named compilation unit (an assembly) holding types by full name.
type Module struct {
	name     string
	universe *Universe
	types    map[string]*TypeNode
	order    []*TypeNode
}

func (m *Module) Name() string { return m.name }

// Declare returns the type with the given namespace and name, creating it on
// first use. Partial declarations therefore share one node.
func (m *Module) Declare(namespace, name string) *TypeNode {
	fullName := JoinName(namespace, name)
	if t, ok := m.types[fullName]; ok {
		return t
	}
	if m.universe != nil && m.universe.sealed {
		panic("symbols: Declare on sealed universe")
	}
	t := &TypeNode{
		id:     TypeIdentity{Name: name, Namespace: namespace, Module: m.name},
		module: m,
	}
	m.types[fullName] = t
	m.order = append(m.order, t)
	return t
}

// Lookup finds a type by its metadata name ("Namespace.Name").
func (m *Module) Lookup(fullName string) (*TypeNode, bool) {
	t, ok := m.types[fullName]
	return t, ok
}

// Types returns the module's types in declaration order.
func (m *Module) Types() []*TypeNode {
	return m.order
}

// Universe is the set of modules visible to one analysis pass, in enumeration
// order. Several modules may share a name (e.g. two versions of one library).
type Universe struct {
	modules []*Module
	sealed  bool
}

func NewUniverse() *Universe {
	return &Universe{}
}

// AddModule appends a new module, even if one with the same name exists.
func (u *Universe) AddModule(name string) *Module {
	if u.sealed {
		panic("symbols: AddModule on sealed universe")
	}
	m := &Module{
		name:     name,
		universe: u,
		types:    make(map[string]*TypeNode),
	}
	u.modules = append(u.modules, m)
	return m
}

func (u *Universe) Modules() []*Module {
	return u.modules
}

// Seal freezes the graph. Declarations and base links can no longer change.
func (u *Universe) Seal() {
	u.sealed = true
}

func (u *Universe) Sealed() bool {
	return u.sealed
}

// ResolveExternalType locates id.FullName() in a module named moduleHint.
//
// Modules are scanned in enumeration order and matched by name with Unicode
// case folding; a module whose name matches but which does not declare the
// type is skipped. When several modules satisfy both conditions the first one
// wins. This is a known nondeterminism if multiple versions of one module are
// visible; no version tie-break is attempted.
func (u *Universe) ResolveExternalType(id TypeIdentity, moduleHint string) (*TypeNode, bool) {
	if u == nil {
		return nil, false
	}
	want := foldName(moduleHint)
	fullName := id.FullName()
	for _, m := range u.modules {
		if foldName(m.name) != want {
			continue
		}
		if t, ok := m.Lookup(fullName); ok {
			return t, true
		}
	}
	return nil, false
}

// Resolve is ResolveExternalType using the identity's own module as the hint.
func (u *Universe) Resolve(id TypeIdentity) (*TypeNode, bool) {
	return u.ResolveExternalType(id, id.Module)
}

// Target pairs a configured identity with its node in this universe, if any.
func (u *Universe) Target(id TypeIdentity) Target {
	t, _ := u.Resolve(id)
	return Target{Identity: id, Node: t}
}

// foldName applies full Unicode case folding. A fresh Caser is used per call
// because cases.Caser is stateful.
func foldName(s string) string {
	return cases.Fold().String(s)
}
