package symbols

import (
	"uclint/internal/source"
)

// Visibility is the declared accessibility of a member.
// The zero value is private, matching C#'s default for fields.
type Visibility uint8

const (
	VisibilityPrivate Visibility = iota
	VisibilityPrivateProtected
	VisibilityProtected
	VisibilityInternal
	VisibilityProtectedInternal
	VisibilityPublic
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityPrivateProtected:
		return "private protected"
	case VisibilityProtected:
		return "protected"
	case VisibilityInternal:
		return "internal"
	case VisibilityProtectedInternal:
		return "protected internal"
	case VisibilityPublic:
		return "public"
	default:
		return "unknown"
	}
}

// Declaration is a named member (a field) owned by one type.
//
// Owner may be nil when the host could not attach the member to a type; rules
// treat such declarations as out of scope.
type Declaration struct {
	Name        string
	Owner       *TypeNode
	Visibility  Visibility
	Static      bool
	Const       bool
	ReadOnly    bool
	Location    source.Span
	Annotations []AnnotationUsage
}
