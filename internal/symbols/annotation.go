package symbols

import (
	"strconv"
)

// ValueKind classifies a constructor argument.
type ValueKind uint8

const (
	// ValueUnresolved is anything that is not a plain literal: constant
	// expressions, nameof, interpolated strings, typeof, ...
	ValueUnresolved ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueNull
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	case ValueNull:
		return "null"
	default:
		return "unresolved"
	}
}

// Value is a primitive constructor-argument value.
type Value struct {
	Kind ValueKind
	Str  string  // ValueString; raw literal text for ValueNumber
	Num  float64 // ValueNumber
	Bool bool    // ValueBool
}

func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }
func BoolValue(b bool) Value     { return Value{Kind: ValueBool, Bool: b} }
func NullValue() Value           { return Value{Kind: ValueNull} }
func UnresolvedValue() Value     { return Value{Kind: ValueUnresolved} }

// NumberValue parses a numeric literal; unparsable text yields an unresolved value.
func NumberValue(text string) Value {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return UnresolvedValue()
	}
	return Value{Kind: ValueNumber, Str: text, Num: f}
}

// AsString returns the string payload; ok is false for every other kind.
func (v Value) AsString() (string, bool) {
	if v.Kind != ValueString {
		return "", false
	}
	return v.Str, true
}

// AnnotationUsage is one attribute applied to a declaration.
// Type is nil when the attribute class could not be resolved; Identity then
// carries the best guess the host could make from the source text.
type AnnotationUsage struct {
	Identity TypeIdentity
	Type     *TypeNode
	Args     []Value
}

// Is reports whether the annotation is, or derives from, the target.
// Unresolved annotations can only match by identity.
func (a AnnotationUsage) Is(target Target) bool {
	if a.Type != nil {
		return target.Matches(a.Type)
	}
	return a.Identity.Equal(target.Identity)
}

// StringArg reads positional argument i as a string. A missing argument or a
// value of another kind is reported as absent, never as an error.
func (a AnnotationUsage) StringArg(i int) (string, bool) {
	if i < 0 || i >= len(a.Args) {
		return "", false
	}
	return a.Args[i].AsString()
}

// AttributesOf returns the annotations of decl in source order.
func AttributesOf(decl *Declaration) []AnnotationUsage {
	if decl == nil {
		return nil
	}
	return decl.Annotations
}

// HasAnnotation reports whether any annotation of decl matches target.
func HasAnnotation(decl *Declaration, target Target) bool {
	_, ok := FirstAnnotation(decl, target)
	return ok
}

// FirstAnnotation returns the first annotation of decl matching target.
func FirstAnnotation(decl *Declaration, target Target) (AnnotationUsage, bool) {
	for _, a := range AttributesOf(decl) {
		if a.Is(target) {
			return a, true
		}
	}
	return AnnotationUsage{}, false
}
