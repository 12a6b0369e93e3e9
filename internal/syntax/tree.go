package syntax

import (
	"slices"
	"strings"

	"uclint/internal/source"
)

// Tree is the parsed form of one C# file.
type Tree struct {
	File   source.FileID
	Path   string
	Source []byte
	Usings []Using
	Types  []*TypeDecl
	// Errors counts ERROR and missing nodes reported by the parser.
	Errors int

	suppressions []suppression
}

// Using is a using directive. Alias is set for "using A = B;", in which case
// Namespace holds the aliased name.
type Using struct {
	Namespace string
	Alias     string
	Static    bool
}

// TypeDecl is a class, struct or record declaration. Nested types are
// flattened into Tree.Types with Name "Outer+Inner".
type TypeDecl struct {
	Kind      string // class, struct, record
	Namespace string
	Name      string
	Arity     int // number of generic type parameters
	Bases     []string
	Span      source.Span
	NameSpan  source.Span
	Fields    []*FieldDecl
}

// FullName returns "Namespace.Name".
func (t *TypeDecl) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// FieldRef addresses a field by position: Tree.Types[Type].Fields[Field].
type FieldRef struct {
	Type  int
	Field int
}

// Less orders refs by declaration position.
func (r FieldRef) Less(o FieldRef) bool {
	if r.Type != o.Type {
		return r.Type < o.Type
	}
	return r.Field < o.Field
}

// Field returns the field at ref, or nil when ref is out of range.
func (t *Tree) Field(ref FieldRef) *FieldDecl {
	if ref.Type < 0 || ref.Type >= len(t.Types) {
		return nil
	}
	fields := t.Types[ref.Type].Fields
	if ref.Field < 0 || ref.Field >= len(fields) {
		return nil
	}
	return fields[ref.Field]
}

// FindDeclarator locates the declarator whose identifier covers exactly span.
func (t *Tree) FindDeclarator(span source.Span) (FieldRef, Declarator, bool) {
	if span.File != t.File {
		return FieldRef{}, Declarator{}, false
	}
	for ti, td := range t.Types {
		for fi, fd := range td.Fields {
			if !fd.Span.Contains(span) {
				continue
			}
			for _, d := range fd.Declarators {
				if d.NameSpan == span {
					return FieldRef{Type: ti, Field: fi}, d, true
				}
			}
		}
	}
	return FieldRef{}, Declarator{}, false
}

// ReplaceField returns a tree that differs from t only at ref. t is not
// modified; every other type and field is shared.
func (t *Tree) ReplaceField(ref FieldRef, field *FieldDecl) *Tree {
	if t.Field(ref) == nil || field == nil {
		return t
	}
	next := *t
	next.Types = slices.Clone(t.Types)
	td := *t.Types[ref.Type]
	td.Fields = slices.Clone(td.Fields)
	td.Fields[ref.Field] = field
	next.Types[ref.Type] = &td
	return &next
}

// Edits returns the text edits of every rewritten field, sorted by offset.
func (t *Tree) Edits() []Edit {
	var out []Edit
	for _, td := range t.Types {
		for _, fd := range td.Fields {
			out = append(out, fd.Edits()...)
		}
	}
	sortEdits(out)
	return out
}

// Render reproduces the source with all edits applied.
func (t *Tree) Render() []byte {
	edits := t.Edits()
	if len(edits) == 0 {
		return slices.Clone(t.Source)
	}
	var b strings.Builder
	b.Grow(len(t.Source) + 64)
	pos := uint32(0)
	for _, e := range edits {
		if e.Start < pos {
			// overlapping edit; earlier one wins
			continue
		}
		b.Write(t.Source[pos:e.Start])
		b.WriteString(e.Text)
		pos = e.End
	}
	b.Write(t.Source[pos:])
	return []byte(b.String())
}

// Changed reports whether any field was rewritten.
func (t *Tree) Changed() bool {
	for _, td := range t.Types {
		for _, fd := range td.Fields {
			if fd.rewritten {
				return true
			}
		}
	}
	return false
}
