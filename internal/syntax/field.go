package syntax

import (
	"slices"
	"sort"
	"strings"

	"uclint/internal/source"
)

// FieldDecl is one field declaration, possibly declaring several variables.
type FieldDecl struct {
	Span        source.Span
	Attributes  []AttributeList
	Modifiers   []Modifier
	Type        string
	TypeSpan    source.Span
	Declarators []Declarator
	// Indent is the whitespace before the declaration when it starts a line.
	Indent string

	bodyStart uint32 // first modifier, or the type when there is none
	lineStart bool   // bodyStart is the first non-blank byte of its line
	origMods  []Modifier
	rewritten bool
}

// Declarator is one declared variable.
type Declarator struct {
	Name     string
	NameSpan source.Span
}

// Names returns the declared variable names.
func (f *FieldDecl) Names() []string {
	out := make([]string, 0, len(f.Declarators))
	for _, d := range f.Declarators {
		out = append(out, d.Name)
	}
	return out
}

// Modifier is one modifier keyword. Modifiers added by a rewrite have no span.
type Modifier struct {
	Keyword  string
	Span     source.Span
	inserted bool
}

var accessKeywords = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"internal":  true,
}

var modifierKeywords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "const": true, "readonly": true, "volatile": true,
	"new": true, "unsafe": true, "extern": true, "required": true,
	"fixed": true, "abstract": true, "virtual": true, "override": true,
	"sealed": true, "partial": true, "async": true, "file": true,
}

// IsAccess reports whether m is an accessibility keyword.
func (m Modifier) IsAccess() bool {
	return accessKeywords[m.Keyword]
}

// HasModifier reports whether keyword is among f's modifiers.
func (f *FieldDecl) HasModifier(keyword string) bool {
	for _, m := range f.Modifiers {
		if m.Keyword == keyword {
			return true
		}
	}
	return false
}

// AttributeList is one bracketed "[...]" group.
type AttributeList struct {
	Target     string // "field" in [field: X], usually empty
	Attributes []Attribute
	Span       source.Span
	Synthetic  bool // added by a rewrite
}

func (l AttributeList) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if l.Target != "" {
		b.WriteString(l.Target)
		b.WriteString(": ")
	}
	for i, a := range l.Attributes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Attribute is one attribute usage as written.
type Attribute struct {
	Name string
	Args []Argument // nil when written without parentheses
	Span source.Span
}

func (a Attribute) String() string {
	if a.Args == nil {
		return a.Name
	}
	parts := make([]string, 0, len(a.Args))
	for _, arg := range a.Args {
		parts = append(parts, arg.String())
	}
	return a.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Argument is one attribute argument. Property is set for "Name = value"
// assignments, which are not constructor arguments.
type Argument struct {
	Name     string
	Property bool
	Value    Literal
}

func (a Argument) String() string {
	switch {
	case a.Name == "":
		return a.Value.Source()
	case a.Property:
		return a.Name + " = " + a.Value.Source()
	default:
		return a.Name + ": " + a.Value.Source()
	}
}

// Edit replaces Source[Start:End] with Text.
type Edit struct {
	Start uint32
	End   uint32
	Text  string
}

// WithAttribute returns a copy of f with a new attribute list holding attr,
// placed after the existing lists.
func (f *FieldDecl) WithAttribute(attr Attribute) *FieldDecl {
	next := f.clone()
	next.Attributes = append(next.Attributes, AttributeList{
		Attributes: []Attribute{attr},
		Synthetic:  true,
	})
	return next
}

// WithAccess returns a copy of f whose only accessibility modifier is
// keyword. The first existing access modifier is rewritten in place, any
// others are removed; without one, keyword is inserted before the other
// modifiers.
func (f *FieldDecl) WithAccess(keyword string) *FieldDecl {
	next := f.clone()
	mods := make([]Modifier, 0, len(f.Modifiers)+1)
	replaced := false
	for _, m := range f.Modifiers {
		if !m.IsAccess() {
			mods = append(mods, m)
			continue
		}
		if replaced {
			continue
		}
		m.Keyword = keyword
		mods = append(mods, m)
		replaced = true
	}
	if !replaced {
		mods = append([]Modifier{{Keyword: keyword, inserted: true}}, mods...)
	}
	next.Modifiers = mods
	return next
}

func (f *FieldDecl) clone() *FieldDecl {
	next := *f
	next.Attributes = slices.Clone(f.Attributes)
	next.Modifiers = slices.Clone(f.Modifiers)
	next.rewritten = true
	return &next
}

// Edits describes how f differs from the parsed declaration.
func (f *FieldDecl) Edits() []Edit {
	if !f.rewritten {
		return nil
	}
	var out []Edit
	for _, l := range f.Attributes {
		if !l.Synthetic {
			continue
		}
		sep := " "
		if f.lineStart {
			sep = "\n" + f.Indent
		}
		out = append(out, Edit{Start: f.bodyStart, End: f.bodyStart, Text: l.String() + sep})
	}
	for _, m := range f.Modifiers {
		if m.inserted {
			out = append(out, Edit{Start: f.bodyStart, End: f.bodyStart, Text: m.Keyword + " "})
		}
	}
	for _, orig := range f.origMods {
		cur, ok := f.modifierAt(orig.Span)
		switch {
		case !ok:
			out = append(out, Edit{Start: orig.Span.Start, End: f.skipBlanks(orig.Span.End)})
		case cur.Keyword != orig.Keyword:
			out = append(out, Edit{Start: orig.Span.Start, End: orig.Span.End, Text: cur.Keyword})
		}
	}
	sortEdits(out)
	return out
}

func (f *FieldDecl) modifierAt(span source.Span) (Modifier, bool) {
	for _, m := range f.Modifiers {
		if !m.inserted && m.Span == span {
			return m, true
		}
	}
	return Modifier{}, false
}

// skipBlanks returns the start of the token following a removed modifier:
// the next parsed modifier or the type.
func (f *FieldDecl) skipBlanks(off uint32) uint32 {
	limit := f.TypeSpan.Start
	if limit < off {
		return off
	}
	for _, m := range f.origMods {
		if m.Span.Start >= off && m.Span.Start < limit {
			limit = m.Span.Start
		}
	}
	return limit
}

// sortEdits orders by offset; at equal offsets insertions go first and keep
// their relative order.
func sortEdits(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		return edits[i].End == edits[i].Start && edits[j].End != edits[j].Start
	})
}
