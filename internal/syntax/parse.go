package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"uclint/internal/source"
)

// Parse builds a Tree for file. Syntax errors are not fatal: ERROR nodes are
// counted in Tree.Errors and whatever declarations can be recovered are kept.
// The returned error is non-nil only when parsing was cancelled.
func Parse(ctx context.Context, file *source.File) (*Tree, error) {
	if file == nil {
		return nil, fmt.Errorf("syntax: nil file")
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(csharp.GetLanguage())

	ts, err := parser.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", file.Path, err)
	}
	defer ts.Close()

	b := &builder{
		src: file.Content,
		tree: &Tree{
			File:   file.ID,
			Path:   file.Path,
			Source: file.Content,
		},
	}
	b.compilationUnit(ts.RootNode())
	b.tree.suppressions = scanPragmas(file.Content)
	return b.tree, nil
}

type builder struct {
	src  []byte
	tree *Tree
}

func (b *builder) span(n *sitter.Node) source.Span {
	return source.Span{File: b.tree.File, Start: n.StartByte(), End: n.EndByte()}
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.src)
}

func (b *builder) compilationUnit(root *sitter.Node) {
	if root == nil {
		return
	}
	if root.HasError() {
		b.countErrors(root)
	}
	ns := ""
	var open *TypeDecl
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() == "file_scoped_namespace_declaration" {
			// older grammars leave the members as siblings of the declaration
			ns = b.text(n.ChildByFieldName("name"))
			b.members(n, ns, "")
			open = nil
			continue
		}
		open = b.memberAfter(open, n, ns, "")
	}
}

func (b *builder) countErrors(n *sitter.Node) {
	if n.IsError() || n.IsMissing() {
		b.tree.Errors++
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && (c.HasError() || c.IsMissing()) {
			b.countErrors(c)
		}
	}
}

func (b *builder) members(n *sitter.Node, ns, outer string) {
	var open *TypeDecl
	for i := 0; i < int(n.NamedChildCount()); i++ {
		open = b.memberAfter(open, n.NamedChild(i), ns, outer)
	}
}

// memberAfter handles n following a type recovered from an ERROR node whose
// body never closed. Stray fields land in that type.
func (b *builder) memberAfter(open *TypeDecl, n *sitter.Node, ns, outer string) *TypeDecl {
	switch n.Type() {
	case "ERROR":
		return b.recoverType(n, ns, outer)
	case "field_declaration":
		if open != nil {
			if fd := b.field(n); fd != nil {
				open.Fields = append(open.Fields, fd)
			}
			return open
		}
	case "comment":
		return open
	}
	b.member(n, ns, outer)
	return nil
}

func (b *builder) member(n *sitter.Node, ns, outer string) {
	switch n.Type() {
	case "using_directive":
		if outer == "" {
			b.using(n)
		}
	case "namespace_declaration":
		name := joinNamespace(ns, b.text(n.ChildByFieldName("name")))
		if body := n.ChildByFieldName("body"); body != nil {
			b.members(body, name, "")
		} else {
			b.members(n, name, "")
		}
	case "class_declaration", "struct_declaration", "record_declaration", "record_struct_declaration":
		b.typeDecl(n, ns, outer)
	case "declaration_list":
		b.members(n, ns, outer)
	case "ERROR":
		b.recoverType(n, ns, outer)
	}
}

var typeKeywords = map[string]string{
	"class":  "class",
	"struct": "struct",
	"record": "record",
}

// recoverType walks an ERROR node. When it holds the head of a type declaration
// (keyword, name, bases, "{") the type is rebuilt and the well-formed members
// after the brace are kept. Returns the rebuilt type if its body is still open.
func (b *builder) recoverType(n *sitter.Node, ns, outer string) *TypeDecl {
	var td *TypeDecl
	inBases, inBody := false, false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if td == nil {
			kind, ok := typeKeywords[c.Type()]
			if !ok || c.IsNamed() {
				if c.IsNamed() {
					b.member(c, ns, outer)
				}
				continue
			}
			nameNode := n.Child(i + 1)
			if nameNode == nil || nameNode.Type() != "identifier" {
				continue
			}
			i++
			name := b.text(nameNode)
			if outer != "" {
				name = outer + "+" + name
			}
			td = &TypeDecl{
				Kind:      kind,
				Namespace: ns,
				Name:      name,
				Span:      source.Span{File: b.tree.File, Start: c.StartByte(), End: n.EndByte()},
				NameSpan:  b.span(nameNode),
			}
			b.tree.Types = append(b.tree.Types, td)
			continue
		}
		if !inBody {
			switch c.Type() {
			case "type_parameter_list":
				for j := 0; j < int(c.NamedChildCount()); j++ {
					if c.NamedChild(j).Type() == "type_parameter" {
						td.Arity++
					}
				}
			case "base_list":
				td.Bases = append(td.Bases, b.bases(c)...)
			case ":":
				inBases = true
			case "identifier", "qualified_name", "generic_name", "predefined_type":
				if inBases {
					td.Bases = append(td.Bases, strings.Join(strings.Fields(b.text(c)), ""))
				}
			case "{":
				inBody = true
			case "declaration_list":
				b.body(td, c)
				td, inBases = nil, false
			}
			continue
		}
		if c.Type() == "}" {
			td, inBases, inBody = nil, false, false
			continue
		}
		b.bodyMember(td, c)
	}
	return td
}

func joinNamespace(outer, inner string) string {
	inner = strings.Join(strings.Fields(inner), "")
	if outer == "" {
		return inner
	}
	if inner == "" {
		return outer
	}
	return outer + "." + inner
}

func (b *builder) using(n *sitter.Node) {
	text := strings.TrimSpace(b.text(n))
	text = strings.TrimPrefix(text, "global ")
	text = strings.TrimSpace(strings.TrimPrefix(text, "using"))
	text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
	u := Using{}
	if rest, ok := strings.CutPrefix(text, "static "); ok {
		u.Static = true
		text = strings.TrimSpace(rest)
	}
	if alias, target, ok := strings.Cut(text, "="); ok {
		u.Alias = strings.TrimSpace(alias)
		text = target
	}
	u.Namespace = strings.Join(strings.Fields(text), "")
	if u.Namespace != "" {
		b.tree.Usings = append(b.tree.Usings, u)
	}
}

func (b *builder) typeDecl(n *sitter.Node, ns, outer string) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := b.text(nameNode)
	if outer != "" {
		name = outer + "+" + name
	}
	td := &TypeDecl{
		Kind:      strings.TrimSuffix(strings.TrimSuffix(n.Type(), "_declaration"), "_struct"),
		Namespace: ns,
		Name:      name,
		Span:      b.span(n),
		NameSpan:  b.span(nameNode),
	}
	b.tree.Types = append(b.tree.Types, td)

	var body *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "type_parameter_list":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if c.NamedChild(j).Type() == "type_parameter" {
					td.Arity++
				}
			}
		case "base_list":
			td.Bases = b.bases(c)
		case "declaration_list":
			body = c
		}
	}
	if body == nil {
		body = n.ChildByFieldName("body")
	}
	if body != nil {
		b.body(td, body)
	}
}

func (b *builder) body(td *TypeDecl, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.bodyMember(td, n.NamedChild(i))
	}
}

func (b *builder) bodyMember(td *TypeDecl, c *sitter.Node) {
	switch c.Type() {
	case "field_declaration":
		if fd := b.field(c); fd != nil {
			td.Fields = append(td.Fields, fd)
		}
	case "class_declaration", "struct_declaration", "record_declaration", "record_struct_declaration":
		b.typeDecl(c, td.Namespace, td.Name)
	case "ERROR", "declaration_list":
		b.body(td, c)
	}
}

func (b *builder) bases(n *sitter.Node) []string {
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "argument_list", "comment":
			continue
		case "primary_constructor_base_type":
			if t := c.ChildByFieldName("type"); t != nil {
				c = t
			} else if c.NamedChildCount() > 0 {
				c = c.NamedChild(0)
			}
		}
		if text := strings.Join(strings.Fields(b.text(c)), ""); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (b *builder) field(n *sitter.Node) *FieldDecl {
	fd := &FieldDecl{Span: b.span(n)}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c.Type() == "attribute_list":
			fd.Attributes = append(fd.Attributes, b.attributeList(c))
		case c.Type() == "modifier" || (!c.IsNamed() && modifierKeywords[c.Type()]):
			fd.Modifiers = append(fd.Modifiers, Modifier{
				Keyword: strings.TrimSpace(b.text(c)),
				Span:    b.span(c),
			})
		case c.Type() == "variable_declaration":
			b.variables(fd, c)
		}
	}
	if len(fd.Declarators) == 0 {
		return nil
	}
	fd.origMods = fd.Modifiers
	fd.bodyStart = fd.TypeSpan.Start
	if len(fd.Modifiers) > 0 {
		fd.bodyStart = fd.Modifiers[0].Span.Start
	}
	fd.Indent, fd.lineStart = b.indentAt(fd.bodyStart)
	return fd
}

// indentAt returns the blanks between the start of off's line and off, and
// whether only blanks precede off on that line.
func (b *builder) indentAt(off uint32) (string, bool) {
	start := off
	for start > 0 && b.src[start-1] != '\n' {
		start--
	}
	prefix := b.src[start:off]
	for _, c := range prefix {
		if c != ' ' && c != '\t' {
			return "", false
		}
	}
	return string(prefix), true
}

func (b *builder) variables(fd *FieldDecl, n *sitter.Node) {
	typeNode := n.ChildByFieldName("type")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "variable_declarator" {
			if typeNode == nil && c.Type() != "comment" {
				typeNode = c
			}
			continue
		}
		nameNode := c.ChildByFieldName("name")
		if nameNode == nil {
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if c.NamedChild(j).Type() == "identifier" {
					nameNode = c.NamedChild(j)
					break
				}
			}
		}
		if nameNode == nil {
			continue
		}
		fd.Declarators = append(fd.Declarators, Declarator{
			Name:     b.text(nameNode),
			NameSpan: b.span(nameNode),
		})
	}
	if typeNode != nil {
		fd.Type = b.text(typeNode)
		fd.TypeSpan = b.span(typeNode)
	}
}

func (b *builder) attributeList(n *sitter.Node) AttributeList {
	l := AttributeList{Span: b.span(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "attribute_target_specifier":
			l.Target = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(b.text(c)), ":"))
		case "attribute":
			l.Attributes = append(l.Attributes, b.attribute(c))
		}
	}
	return l
}

func (b *builder) attribute(n *sitter.Node) Attribute {
	a := Attribute{Span: b.span(n)}
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil && n.NamedChildCount() > 0 {
		nameNode = n.NamedChild(0)
	}
	a.Name = strings.Join(strings.Fields(b.text(nameNode)), "")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "attribute_argument_list" {
			continue
		}
		a.Args = []Argument{}
		for j := 0; j < int(c.NamedChildCount()); j++ {
			if arg := c.NamedChild(j); arg.Type() == "attribute_argument" {
				a.Args = append(a.Args, b.argument(arg))
			}
		}
	}
	return a
}

func (b *builder) argument(n *sitter.Node) Argument {
	var arg Argument
	var expr *sitter.Node
	// newer grammars put the label in a name field instead of name_colon
	label := n.ChildByFieldName("name")
	if label != nil && label.Type() == "identifier" {
		arg.Name = b.text(label)
	} else {
		label = nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "name_equals":
			arg.Property = true
			arg.Name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(b.text(c)), "="))
		case "name_colon":
			arg.Name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(b.text(c)), ":"))
		case ":", "=":
			if c.IsNamed() {
				continue
			}
			arg.Property = c.Type() == "="
			if expr != nil && expr.Type() == "identifier" {
				arg.Name = b.text(expr)
				expr = nil
			}
		case "comment":
		default:
			if !c.IsNamed() || sameNode(c, label) {
				continue
			}
			expr = c
		}
	}
	if expr != nil {
		arg.Value = b.literal(expr)
	}
	return arg
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func (b *builder) literal(n *sitter.Node) Literal {
	text := b.text(n)
	switch n.Type() {
	case "string_literal", "verbatim_string_literal", "raw_string_literal":
		if s, ok := decodeString(text); ok {
			return StringLiteral(s)
		}
	case "integer_literal", "real_literal":
		return Literal{Kind: LitNumber, Value: text}
	case "boolean_literal":
		return Literal{Kind: LitBool, Value: text}
	case "null_literal":
		return Literal{Kind: LitNull, Value: "null"}
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return b.literal(n.NamedChild(0))
		}
	case "prefix_unary_expression":
		if n.NamedChildCount() == 1 {
			inner := b.literal(n.NamedChild(0))
			sign := strings.TrimSpace(text)[:1]
			if inner.Kind == LitNumber && (sign == "-" || sign == "+") {
				return Literal{Kind: LitNumber, Value: sign + inner.Value}
			}
		}
	}
	return Literal{Kind: LitOther, Value: text}
}
