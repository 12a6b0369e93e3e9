package fix

import (
	"errors"
	"fmt"
	"strings"

	"uclint/internal/diag"
	"uclint/internal/rules"
	"uclint/internal/symbols"
	"uclint/internal/syntax"
)

// ErrNotApplicable is returned when a diagnostic no longer matches the tree
// or lacks the state its fix needs. Nothing is rewritten.
var ErrNotApplicable = errors.New("fix not applicable")

const (
	TitleAddTooltip  = "Add Tooltip"
	TitleMakePrivate = "Make private"
)

// Provider builds the fix paired with one rule.
type Provider interface {
	Code() diag.Code
	Title() string
	// EquivalenceKey groups fixes that can be applied together.
	EquivalenceKey() string
	Apply(tree *syntax.Tree, d diag.Diagnostic) (Result, error)
}

// Result is the outcome of one fix: a new tree that differs from the input
// only at Ref, where Field replaced the old declaration.
type Result struct {
	Tree  *syntax.Tree
	Ref   syntax.FieldRef
	Field *syntax.FieldDecl
}

// rewriter is the field-level half of a provider, shared by Apply and FixAll.
type rewriter interface {
	rewrite(field *syntax.FieldDecl, d diag.Diagnostic) (*syntax.FieldDecl, error)
}

// locate finds the field declaring d's name at d's location.
func locate(tree *syntax.Tree, d diag.Diagnostic) (syntax.FieldRef, *syntax.FieldDecl, error) {
	if tree == nil {
		return syntax.FieldRef{}, nil, fmt.Errorf("%w: no tree", ErrNotApplicable)
	}
	if d.Primary.File != tree.File {
		return syntax.FieldRef{}, nil, fmt.Errorf("%w: diagnostic belongs to another file", ErrNotApplicable)
	}
	ref, decl, ok := tree.FindDeclarator(d.Primary)
	if !ok {
		return syntax.FieldRef{}, nil, fmt.Errorf("%w: no declaration at %s", ErrNotApplicable, d.Primary)
	}
	if syntax.Identifier(decl.Name) != syntax.Identifier(d.Name()) {
		return syntax.FieldRef{}, nil, fmt.Errorf("%w: declaration at %s is %q, not %q", ErrNotApplicable, d.Primary, decl.Name, d.Name())
	}
	return ref, tree.Field(ref), nil
}

func apply(rw rewriter, code diag.Code, tree *syntax.Tree, d diag.Diagnostic) (Result, error) {
	if d.Code != code {
		return Result{}, fmt.Errorf("%w: %s cannot fix %s", ErrNotApplicable, code, d.Code)
	}
	ref, field, err := locate(tree, d)
	if err != nil {
		return Result{}, err
	}
	next, err := rw.rewrite(field, d)
	if err != nil {
		return Result{}, err
	}
	return Result{Tree: tree.ReplaceField(ref, next), Ref: ref, Field: next}, nil
}

// attributeName is the shortest spelling of an attribute class: the type name
// without its "Attribute" suffix.
func attributeName(id symbols.TypeIdentity) string {
	name := id.Name
	if trimmed := strings.TrimSuffix(name, "Attribute"); trimmed != "" {
		name = trimmed
	}
	return name
}

// AddTooltip appends an empty description attribute. Running it twice on the
// same declaration without re-analysis adds two attributes.
type AddTooltip struct {
	Description symbols.TypeIdentity
}

func (AddTooltip) Code() diag.Code        { return diag.HasTooltip }
func (AddTooltip) Title() string          { return TitleAddTooltip }
func (AddTooltip) EquivalenceKey() string { return TitleAddTooltip }

func (p AddTooltip) Apply(tree *syntax.Tree, d diag.Diagnostic) (Result, error) {
	return apply(p, p.Code(), tree, d)
}

func (p AddTooltip) rewrite(field *syntax.FieldDecl, _ diag.Diagnostic) (*syntax.FieldDecl, error) {
	return field.WithAttribute(syntax.Attribute{
		Name: attributeName(p.Description),
		Args: []syntax.Argument{{Value: syntax.StringLiteral("")}},
	}), nil
}

// MakePrivate rewrites the access modifiers to private and adds the expose
// attribute unless rules.PropHasSerializeField says it is already there.
type MakePrivate struct {
	Expose symbols.TypeIdentity
}

func (MakePrivate) Code() diag.Code        { return diag.PrivateField }
func (MakePrivate) Title() string          { return TitleMakePrivate }
func (MakePrivate) EquivalenceKey() string { return TitleMakePrivate }

func (p MakePrivate) Apply(tree *syntax.Tree, d diag.Diagnostic) (Result, error) {
	return apply(p, p.Code(), tree, d)
}

func (p MakePrivate) rewrite(field *syntax.FieldDecl, d diag.Diagnostic) (*syntax.FieldDecl, error) {
	exposed, ok := d.Properties.Bool(rules.PropHasSerializeField)
	if !ok {
		return nil, fmt.Errorf("%w: missing or malformed %s property", ErrNotApplicable, rules.PropHasSerializeField)
	}
	next := field.WithAccess("private")
	if !exposed {
		next = next.WithAttribute(syntax.Attribute{Name: attributeName(p.Expose)})
	}
	return next, nil
}
