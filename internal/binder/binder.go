// Package binder turns parsed C# files into the symbol graph the rules run
// on: one project module holding every declared class, the catalog modules,
// resolved base links, and a Declaration per declared field variable.
package binder

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"uclint/internal/catalog"
	"uclint/internal/symbols"
	"uclint/internal/syntax"
)

// Options configures a Bind call.
type Options struct {
	// Module is the name of the analysed module, e.g. "Assembly-CSharp".
	Module   string
	Catalogs []*catalog.Catalog
}

// FileDecls holds the declarations bound from one tree.
type FileDecls struct {
	Tree  *syntax.Tree
	Decls []*symbols.Declaration
}

// Binding is the sealed result of Bind. Files is parallel to the input trees.
type Binding struct {
	Universe *symbols.Universe
	Project  *symbols.Module
	Files    []FileDecls
}

// Decls returns the declarations of every file in input order.
func (b *Binding) Decls() []*symbols.Declaration {
	var out []*symbols.Declaration
	for _, f := range b.Files {
		out = append(out, f.Decls...)
	}
	return out
}

type binder struct {
	u       *symbols.Universe
	project *symbols.Module
	nodes   map[*syntax.TypeDecl]*symbols.TypeNode
}

// Bind builds and seals a universe from trees and opts.Catalogs. The project
// module comes first in enumeration order, so project types shadow catalog
// types of the same name.
func Bind(trees []*syntax.Tree, opts Options) *Binding {
	module := opts.Module
	if module == "" {
		module = "Assembly-CSharp"
	}
	b := &binder{
		u:     symbols.NewUniverse(),
		nodes: make(map[*syntax.TypeDecl]*symbols.TypeNode),
	}
	b.project = b.u.AddModule(module)
	catalog.Install(b.u, opts.Catalogs)

	for _, tree := range trees {
		for _, td := range tree.Types {
			b.nodes[td] = b.project.Declare(identifier(td.Namespace), metadataName(identifier(td.Name), td.Arity))
		}
	}
	for _, tree := range trees {
		for _, td := range tree.Types {
			b.linkBase(tree, td)
		}
	}

	out := &Binding{Universe: b.u, Project: b.project, Files: make([]FileDecls, 0, len(trees))}
	for _, tree := range trees {
		fd := FileDecls{Tree: tree}
		for _, td := range tree.Types {
			owner := b.nodes[td]
			for _, field := range td.Fields {
				fd.Decls = append(fd.Decls, b.declarations(tree, td, owner, field)...)
			}
		}
		out.Files = append(out.Files, fd)
	}
	b.u.Seal()
	return out
}

// linkBase sets the base of td's node from the first base-list entry that
// resolves to a type. Partial declarations link once.
func (b *binder) linkBase(tree *syntax.Tree, td *syntax.TypeDecl) {
	node := b.nodes[td]
	if node.BaseState() != symbols.BaseAbsent || len(td.Bases) == 0 {
		return
	}
	for _, ref := range td.Bases {
		if base, ok := b.lookup(tree, td.Namespace, ref); ok {
			if base != node {
				node.SetBase(base)
			}
			return
		}
	}
	first := td.Bases[0]
	if looksLikeInterface(first) {
		return
	}
	name, arity := stripGenerics(first)
	ns, simple := symbols.SplitName(name)
	node.SetUnresolvedBase(symbols.TypeIdentity{Namespace: ns, Name: metadataName(simple, arity)})
}

// looksLikeInterface applies the IName convention to an unresolved base.
func looksLikeInterface(ref string) bool {
	name, _ := stripGenerics(ref)
	_, simple := symbols.SplitName(name)
	return len(simple) > 1 && simple[0] == 'I' && simple[1] >= 'A' && simple[1] <= 'Z'
}

// lookup resolves a type reference as written in tree, inside namespace ns.
// Candidates are tried in C# order: enclosing namespaces from the innermost
// outwards, then using directives.
func (b *binder) lookup(tree *syntax.Tree, ns, ref string) (*symbols.TypeNode, bool) {
	ref = strings.TrimPrefix(identifier(ref), "global::")
	name, arity := stripGenerics(ref)
	head, rest, qualified := strings.Cut(name, ".")
	for _, u := range tree.Usings {
		if u.Alias == "" || u.Alias != head {
			continue
		}
		name = u.Namespace
		if qualified {
			name += "." + rest
		}
		break
	}
	qualifier, simple := symbols.SplitName(name)
	simple = metadataName(simple, arity)

	var candidates []string
	written := symbols.JoinName(qualifier, simple)
	scope := identifier(ns)
	for {
		candidates = append(candidates, symbols.JoinName(scope, written))
		if scope == "" {
			break
		}
		scope, _ = symbols.SplitName(scope)
	}
	if qualifier == "" {
		for _, u := range tree.Usings {
			if u.Alias == "" && !u.Static {
				candidates = append(candidates, u.Namespace+"."+simple)
			}
		}
	}
	for _, full := range candidates {
		for _, m := range b.u.Modules() {
			if t, ok := m.Lookup(full); ok {
				return t, true
			}
		}
	}
	return nil, false
}

func (b *binder) declarations(tree *syntax.Tree, td *syntax.TypeDecl, owner *symbols.TypeNode, f *syntax.FieldDecl) []*symbols.Declaration {
	annotations := b.annotations(tree, td.Namespace, f)
	vis := visibility(f)
	out := make([]*symbols.Declaration, 0, len(f.Declarators))
	for _, d := range f.Declarators {
		out = append(out, &symbols.Declaration{
			Name:        identifier(d.Name),
			Owner:       owner,
			Visibility:  vis,
			Static:      f.HasModifier("static"),
			Const:       f.HasModifier("const"),
			ReadOnly:    f.HasModifier("readonly"),
			Location:    d.NameSpan,
			Annotations: annotations,
		})
	}
	return out
}

func visibility(f *syntax.FieldDecl) symbols.Visibility {
	public := f.HasModifier("public")
	private := f.HasModifier("private")
	protected := f.HasModifier("protected")
	internal := f.HasModifier("internal")
	switch {
	case public:
		return symbols.VisibilityPublic
	case protected && internal:
		return symbols.VisibilityProtectedInternal
	case private && protected:
		return symbols.VisibilityPrivateProtected
	case protected:
		return symbols.VisibilityProtected
	case internal:
		return symbols.VisibilityInternal
	default:
		return symbols.VisibilityPrivate
	}
}

func (b *binder) annotations(tree *syntax.Tree, ns string, f *syntax.FieldDecl) []symbols.AnnotationUsage {
	var out []symbols.AnnotationUsage
	for _, list := range f.Attributes {
		if list.Target != "" && list.Target != "field" {
			continue
		}
		for _, a := range list.Attributes {
			out = append(out, b.annotation(tree, ns, a))
		}
	}
	return out
}

// annotation resolves "X" first and "XAttribute" second, as the C# compiler
// does for attribute names.
func (b *binder) annotation(tree *syntax.Tree, ns string, a syntax.Attribute) symbols.AnnotationUsage {
	usage := symbols.AnnotationUsage{Args: arguments(a.Args)}
	name := identifier(a.Name)
	for _, candidate := range []string{name, name + "Attribute"} {
		if t, ok := b.lookup(tree, ns, candidate); ok {
			usage.Type = t
			usage.Identity = t.Identity()
			return usage
		}
	}
	qualifier, simple := symbols.SplitName(strings.TrimPrefix(name, "global::"))
	if !strings.HasSuffix(simple, "Attribute") {
		simple += "Attribute"
	}
	usage.Identity = symbols.TypeIdentity{Namespace: qualifier, Name: simple}
	return usage
}

func arguments(args []syntax.Argument) []symbols.Value {
	if len(args) == 0 {
		return nil
	}
	out := make([]symbols.Value, 0, len(args))
	for _, a := range args {
		if a.Property {
			continue
		}
		out = append(out, value(a.Value))
	}
	return out
}

func value(l syntax.Literal) symbols.Value {
	switch l.Kind {
	case syntax.LitString:
		return symbols.StringValue(norm.NFC.String(l.Value))
	case syntax.LitNumber:
		return number(l.Value)
	case syntax.LitBool:
		return symbols.BoolValue(l.Value == "true")
	case syntax.LitNull:
		return symbols.NullValue()
	default:
		return symbols.UnresolvedValue()
	}
}

// number parses a C# numeric literal: digit separators and type suffixes are
// dropped, hex and binary integers are converted to decimal.
func number(text string) symbols.Value {
	clean := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(clean)
	if strings.HasPrefix(strings.TrimLeft(lower, "+-"), "0x") || strings.HasPrefix(strings.TrimLeft(lower, "+-"), "0b") {
		lower = strings.TrimRight(lower, "ul")
		n, err := strconv.ParseInt(lower, 0, 64)
		if err != nil {
			return symbols.UnresolvedValue()
		}
		return symbols.NumberValue(strconv.FormatInt(n, 10))
	}
	lower = strings.TrimRight(lower, "fdmul")
	return symbols.NumberValue(lower)
}

func identifier(s string) string {
	return syntax.Identifier(s)
}

// stripGenerics removes type arguments and reports the arity of the last
// segment: "A.B<int, C<D>>" -> "A.B", 2.
func stripGenerics(ref string) (string, int) {
	open := strings.IndexByte(ref, '<')
	if open < 0 {
		return ref, 0
	}
	depth, arity := 0, 1
	for _, c := range ref[open:] {
		switch c {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 1 {
				arity++
			}
		}
	}
	return ref[:open], arity
}

func metadataName(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}
