package rules

import (
	"testing"

	"uclint/internal/diag"
	"uclint/internal/source"
	"uclint/internal/symbols"
)

type fixture struct {
	env      *Env
	player   *symbols.TypeNode // Game.Player : MonoBehaviour
	plain    *symbols.TypeNode // Game.Plain, no base
	detached *symbols.TypeNode // Game.Detached : <unresolved>
	expose   symbols.AnnotationUsage
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	u := symbols.NewUniverse()
	unity := u.AddModule("UnityEngine")
	object := unity.Declare("UnityEngine", "Object")
	component := unity.Declare("UnityEngine", "Component")
	behaviour := unity.Declare("UnityEngine", "Behaviour")
	mono := unity.Declare("UnityEngine", "MonoBehaviour")
	component.SetBase(object)
	behaviour.SetBase(component)
	mono.SetBase(behaviour)
	propAttr := unity.Declare("UnityEngine", "PropertyAttribute")
	unity.Declare("UnityEngine", "TooltipAttribute").SetBase(propAttr)
	serialize := unity.Declare("UnityEngine", "SerializeField")

	game := u.AddModule("Assembly-CSharp")
	player := game.Declare("Game", "Player")
	player.SetBase(mono)
	plain := game.Declare("Game", "Plain")
	detached := game.Declare("Game", "Detached")
	detached.SetUnresolvedBase(symbols.TypeIdentity{Namespace: "Vendor", Name: "Base", Module: "Vendor"})
	u.Seal()

	env := NewEnv(u, DefaultTargets())
	return fixture{
		env:      env,
		player:   player,
		plain:    plain,
		detached: detached,
		expose:   symbols.AnnotationUsage{Identity: serialize.Identity(), Type: serialize},
	}
}

func (f fixture) tooltip(args ...symbols.Value) symbols.AnnotationUsage {
	node := f.env.Description.Node
	return symbols.AnnotationUsage{Identity: node.Identity(), Type: node, Args: args}
}

// exposedField is the canonical HasToolTip hit.
func (f fixture) exposedField() *symbols.Declaration {
	return &symbols.Declaration{
		Name:        "speed",
		Owner:       f.player,
		Visibility:  symbols.VisibilityPrivate,
		Location:    source.Span{File: 0, Start: 40, End: 45},
		Annotations: []symbols.AnnotationUsage{f.expose},
	}
}

func TestHasTooltipFires(t *testing.T) {
	f := newFixture(t)
	d, ok := HasTooltipRule{}.Evaluate(f.env, f.exposedField())
	if !ok {
		t.Fatal("expected HasToolTip")
	}
	if d.Code != diag.HasTooltip || d.Name() != "speed" || d.Category != diag.CategoryUsage {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Properties) != 0 {
		t.Fatalf("HasToolTip must not attach properties, got %v", d.Properties)
	}
}

func TestHasTooltipSingleConditionFlips(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		mutate func(*symbols.Declaration)
	}{
		{"public", func(d *symbols.Declaration) { d.Visibility = symbols.VisibilityPublic }},
		{"protected", func(d *symbols.Declaration) { d.Visibility = symbols.VisibilityProtected }},
		{"static", func(d *symbols.Declaration) { d.Static = true }},
		{"const", func(d *symbols.Declaration) { d.Const = true }},
		{"readonly", func(d *symbols.Declaration) { d.ReadOnly = true }},
		{"not a behaviour", func(d *symbols.Declaration) { d.Owner = f.plain }},
		{"unresolved base", func(d *symbols.Declaration) { d.Owner = f.detached }},
		{"no owner", func(d *symbols.Declaration) { d.Owner = nil }},
		{"no expose", func(d *symbols.Declaration) { d.Annotations = nil }},
		{"empty tooltip", func(d *symbols.Declaration) {
			d.Annotations = append(d.Annotations, f.tooltip(symbols.StringValue("")))
		}},
		{"tooltip without args", func(d *symbols.Declaration) {
			d.Annotations = append(d.Annotations, f.tooltip())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := f.exposedField()
			tt.mutate(decl)
			if _, ok := (HasTooltipRule{}).Evaluate(f.env, decl); ok {
				t.Fatal("rule should not fire")
			}
		})
	}
}

func TestHasTooltipAcceptsDerivedDescription(t *testing.T) {
	f := newFixture(t)
	u := symbols.NewUniverse()
	lib := u.AddModule("Tools")
	custom := lib.Declare("Tools", "LongTooltipAttribute")
	custom.SetBase(f.env.Description.Node)

	decl := f.exposedField()
	decl.Annotations = append(decl.Annotations, symbols.AnnotationUsage{Identity: custom.Identity(), Type: custom})
	if _, ok := (HasTooltipRule{}).Evaluate(f.env, decl); ok {
		t.Fatal("an attribute deriving from TooltipAttribute counts as a description")
	}
}

func TestNonEmptyTooltip(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		args []symbols.Value
		want bool
	}{
		{"empty string", []symbols.Value{symbols.StringValue("")}, true},
		{"description", []symbols.Value{symbols.StringValue("speed in m/s")}, false},
		{"missing argument", nil, false},
		{"null", []symbols.Value{symbols.NullValue()}, false},
		{"constant expression", []symbols.Value{symbols.UnresolvedValue()}, false},
		{"number", []symbols.Value{symbols.NumberValue("0")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := f.exposedField()
			decl.Annotations = append(decl.Annotations, f.tooltip(tt.args...))
			d, got := NonEmptyTooltipRule{}.Evaluate(f.env, decl)
			if got != tt.want {
				t.Fatalf("fired = %v, want %v", got, tt.want)
			}
			if got && d.Code != diag.NonEmptyTooltip {
				t.Fatalf("code = %s", d.Code)
			}
		})
	}
}

func TestNonEmptyTooltipNeedsEligibleField(t *testing.T) {
	f := newFixture(t)
	decl := f.exposedField()
	decl.Annotations = []symbols.AnnotationUsage{f.tooltip(symbols.StringValue(""))}
	if _, ok := (NonEmptyTooltipRule{}).Evaluate(f.env, decl); !ok {
		t.Fatal("expose annotation is not required for an empty tooltip")
	}
	decl.Visibility = symbols.VisibilityPublic
	if _, ok := (NonEmptyTooltipRule{}).Evaluate(f.env, decl); ok {
		t.Fatal("public fields are out of scope")
	}
}

func TestPrivateField(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name       string
		visibility symbols.Visibility
		exposed    bool
		fire       bool
	}{
		{"public", symbols.VisibilityPublic, false, true},
		{"protected", symbols.VisibilityProtected, false, true},
		{"internal", symbols.VisibilityInternal, false, true},
		{"protected internal exposed", symbols.VisibilityProtectedInternal, true, true},
		{"private protected", symbols.VisibilityPrivateProtected, false, true},
		{"private", symbols.VisibilityPrivate, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := &symbols.Declaration{Name: "health", Owner: f.player, Visibility: tt.visibility}
			if tt.exposed {
				decl.Annotations = []symbols.AnnotationUsage{f.expose}
			}
			d, ok := PrivateFieldRule{}.Evaluate(f.env, decl)
			if ok != tt.fire {
				t.Fatalf("fired = %v, want %v", ok, tt.fire)
			}
			if !ok {
				return
			}
			got, valid := d.Properties.Bool(PropHasSerializeField)
			if !valid || got != tt.exposed {
				t.Fatalf("%s = %q, want %v", PropHasSerializeField, d.Properties[PropHasSerializeField], tt.exposed)
			}
			if d.Category != diag.CategoryDesign {
				t.Fatalf("category = %s", d.Category)
			}
		})
	}
}

func TestPrivateFieldFilters(t *testing.T) {
	f := newFixture(t)
	for name, mutate := range map[string]func(*symbols.Declaration){
		"static":   func(d *symbols.Declaration) { d.Static = true },
		"const":    func(d *symbols.Declaration) { d.Const = true },
		"readonly": func(d *symbols.Declaration) { d.ReadOnly = true },
		"plain":    func(d *symbols.Declaration) { d.Owner = f.plain },
		"no owner": func(d *symbols.Declaration) { d.Owner = nil },
	} {
		t.Run(name, func(t *testing.T) {
			decl := &symbols.Declaration{Name: "health", Owner: f.player, Visibility: symbols.VisibilityPublic}
			mutate(decl)
			if _, ok := (PrivateFieldRule{}).Evaluate(f.env, decl); ok {
				t.Fatal("rule should not fire")
			}
		})
	}
}

func TestTargetsByIdentityWhenMissingFromUniverse(t *testing.T) {
	// A universe built from a different reference set than the one holding the
	// attribute classes: annotations are matched component-wise.
	u := symbols.NewUniverse()
	unity := u.AddModule("UnityEngine")
	mono := unity.Declare("UnityEngine", "MonoBehaviour")
	game := u.AddModule("Assembly-CSharp")
	player := game.Declare("Game", "Player")
	player.SetBase(mono)
	u.Seal()
	env := NewEnv(u, DefaultTargets())
	if env.Expose.Node != nil {
		t.Fatal("SerializeField is not declared in this universe")
	}
	decl := &symbols.Declaration{
		Name:       "speed",
		Owner:      player,
		Visibility: symbols.VisibilityPrivate,
		Annotations: []symbols.AnnotationUsage{
			{Identity: DefaultTargets().Expose},
		},
	}
	if _, ok := (HasTooltipRule{}).Evaluate(env, decl); !ok {
		t.Fatal("expected a hit through identity matching")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(HasTooltipRule{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(HasTooltipRule{}); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if _, ok := r.Get(diag.HasTooltip); !ok {
		t.Fatal("registered rule not found")
	}
}

func TestEngineAnalyze(t *testing.T) {
	f := newFixture(t)
	exposed := f.exposedField()
	public := &symbols.Declaration{Name: "hp", Owner: f.player, Visibility: symbols.VisibilityPublic}
	decls := []*symbols.Declaration{exposed, public, nil}

	engine := NewEngine(f.env, nil, nil)
	got := engine.Analyze(decls)
	if len(got) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(got), got)
	}

	off := false
	sev := diag.SevError
	engine = NewEngine(f.env, nil, map[diag.Code]Override{
		diag.HasTooltip:   {Enabled: &off},
		diag.PrivateField: {Severity: &sev},
	})
	bag := diag.NewBag(0)
	engine.Run(decls, diag.BagReporter{Bag: bag})
	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1", bag.Len())
	}
	if d := bag.Items()[0]; d.Code != diag.PrivateField || d.Severity != diag.SevError {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if engine.Enabled(diag.HasTooltip) {
		t.Fatal("HasToolTip should be disabled")
	}
}
