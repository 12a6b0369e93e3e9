package symbols

import (
	"fmt"
	"strings"
)

// TypeIdentity names a type independently of any particular TypeNode.
// Two identities are equal iff name, namespace and module all match.
type TypeIdentity struct {
	Name      string
	Namespace string
	Module    string
}

// Equal compares the identities component-wise.
func (id TypeIdentity) Equal(other TypeIdentity) bool {
	return id == other
}

// IsZero reports whether the identity has no name.
func (id TypeIdentity) IsZero() bool {
	return id.Name == ""
}

// FullName returns the metadata name, e.g. "UnityEngine.MonoBehaviour".
func (id TypeIdentity) FullName() string {
	return JoinName(id.Namespace, id.Name)
}

// String renders the assembly-qualified form accepted by ParseIdentity.
func (id TypeIdentity) String() string {
	if id.Module == "" {
		return id.FullName()
	}
	return id.FullName() + ", " + id.Module
}

// ParseIdentity parses "Namespace.Name, Module". The module part is optional;
// without it the identity only matches types declared in a module with an
// empty name.
func ParseIdentity(text string) (TypeIdentity, error) {
	fullName, module, _ := strings.Cut(text, ",")
	fullName = strings.TrimSpace(fullName)
	module = strings.TrimSpace(module)
	if fullName == "" {
		return TypeIdentity{}, fmt.Errorf("empty type name in %q", text)
	}
	ns, name := SplitName(fullName)
	if name == "" {
		return TypeIdentity{}, fmt.Errorf("malformed type name %q", fullName)
	}
	return TypeIdentity{Name: name, Namespace: ns, Module: module}, nil
}

// SplitName splits "A.B.C" into namespace "A.B" and name "C".
func SplitName(fullName string) (namespace, name string) {
	idx := strings.LastIndexByte(fullName, '.')
	if idx < 0 {
		return "", fullName
	}
	return fullName[:idx], fullName[idx+1:]
}

// JoinName is the inverse of SplitName.
func JoinName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
