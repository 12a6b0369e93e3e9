package binder

import (
	"context"
	"testing"

	"uclint/internal/catalog"
	"uclint/internal/source"
	"uclint/internal/symbols"
	"uclint/internal/syntax"
)

func bind(t *testing.T, files map[string]string, order ...string) *Binding {
	t.Helper()
	fs := source.NewFileSet()
	trees := make([]*syntax.Tree, 0, len(order))
	for _, name := range order {
		id := fs.AddVirtual(name, []byte(files[name]))
		tree, err := syntax.Parse(context.Background(), fs.Get(id))
		if err != nil {
			t.Fatal(err)
		}
		trees = append(trees, tree)
	}
	cats, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	return Bind(trees, Options{Module: "Assembly-CSharp", Catalogs: cats})
}

func declByName(b *Binding, name string) *symbols.Declaration {
	for _, d := range b.Decls() {
		if d.Name == name {
			return d
		}
	}
	return nil
}

var mono = symbols.TypeIdentity{Namespace: "UnityEngine", Name: "MonoBehaviour", Module: "UnityEngine"}

func TestBindAcrossFiles(t *testing.T) {
	b := bind(t, map[string]string{
		"Base.cs": "using UnityEngine;\nnamespace Game { public abstract class Actor : MonoBehaviour { } }\n",
		"Player.cs": `using UnityEngine;
namespace Game.Actors
{
    public class Player : Actor
    {
        [SerializeField] [Tooltip("hp")] private int health;
        public float @speed;
        protected internal int a;
        private protected int b;
        static int c;
        const int d = 1;
        readonly int e;
    }
}
`,
	}, "Player.cs", "Base.cs")

	if !b.Universe.Sealed() {
		t.Fatal("binding must seal the universe")
	}
	health := declByName(b, "health")
	if health == nil {
		t.Fatal("health not bound")
	}
	if !symbols.IsOrInheritsByName(health.Owner, mono) {
		t.Fatal("Player should derive from MonoBehaviour through Game.Actor")
	}
	if health.Visibility != symbols.VisibilityPrivate || len(health.Annotations) != 2 {
		t.Fatalf("health = %+v", health)
	}
	tip := health.Annotations[1]
	if tip.Type == nil || tip.Identity.Name != "TooltipAttribute" {
		t.Fatalf("Tooltip resolved to %+v", tip.Identity)
	}
	if s, ok := tip.StringArg(0); !ok || s != "hp" {
		t.Fatalf("tooltip arg = %q, %v", s, ok)
	}
	if health.Annotations[0].Identity.Name != "SerializeField" {
		t.Fatalf("SerializeField resolved to %+v", health.Annotations[0].Identity)
	}

	tests := []struct {
		name string
		vis  symbols.Visibility
	}{
		{"speed", symbols.VisibilityPublic},
		{"a", symbols.VisibilityProtectedInternal},
		{"b", symbols.VisibilityPrivateProtected},
		{"c", symbols.VisibilityPrivate},
	}
	for _, tt := range tests {
		d := declByName(b, tt.name)
		if d == nil || d.Visibility != tt.vis {
			t.Errorf("%s: got %+v, want visibility %s", tt.name, d, tt.vis)
		}
	}
	if !declByName(b, "c").Static || !declByName(b, "d").Const || !declByName(b, "e").ReadOnly {
		t.Error("modifier flags not bound")
	}
}

func TestBindSimpleNameInEnclosingNamespace(t *testing.T) {
	b := bind(t, map[string]string{
		"A.cs": `namespace Game.World {
    class NoteAttribute : System.Attribute { }
    class Actor : UnityEngine.MonoBehaviour { }
}
namespace Game.World.Npc {
    class Player : Actor { [Note] public int speed; }
}
`,
	}, "A.cs")
	speed := declByName(b, "speed")
	if speed == nil || speed.Owner.BaseState() != symbols.BaseResolved {
		t.Fatalf("Player base = %v", speed)
	}
	if got := speed.Owner.Base().Identity().FullName(); got != "Game.World.Actor" {
		t.Fatalf("Player base = %s, want Game.World.Actor", got)
	}
	if !symbols.IsOrInheritsByName(speed.Owner, mono) {
		t.Fatal("Player should reach MonoBehaviour through Actor")
	}
	if len(speed.Annotations) != 1 || speed.Annotations[0].Type == nil ||
		speed.Annotations[0].Identity.FullName() != "Game.World.NoteAttribute" {
		t.Fatalf("annotation = %+v", speed.Annotations)
	}
}

func TestBindUnresolvedAndInterfaceBases(t *testing.T) {
	b := bind(t, map[string]string{
		"A.cs": `namespace Game {
    class Vendorized : Vendor.Widget { public int x; }
    class OnlyInterfaces : IDisposable { public int y; }
    class Generic : UnityEngine.MonoBehaviour, IList<int> { public int z; }
}
`,
	}, "A.cs")

	x := declByName(b, "x")
	if missing, ok := x.Owner.MissingBase(); !ok || missing.FullName() != "Vendor.Widget" {
		t.Fatalf("x owner base = %v %v", missing, ok)
	}
	if y := declByName(b, "y"); y.Owner.BaseState() != symbols.BaseAbsent {
		t.Fatalf("interface-only base list should leave a root, got %s", y.Owner.BaseState())
	}
	if z := declByName(b, "z"); !symbols.IsOrInheritsByName(z.Owner, mono) {
		t.Fatal("qualified base should resolve")
	}
}

func TestBindAliasAndGenericBase(t *testing.T) {
	b := bind(t, map[string]string{
		"A.cs": `using UE = UnityEngine;
namespace Game {
    class Pool<T> : UE.MonoBehaviour { public T item; }
    class IntPool : Pool<int> { public int n; }
}
`,
	}, "A.cs")
	n := declByName(b, "n")
	if n.Owner.Base() == nil || n.Owner.Base().Identity().Name != "Pool`1" {
		t.Fatalf("IntPool base = %v", n.Owner.Base())
	}
	if !symbols.IsOrInheritsByName(n.Owner, mono) {
		t.Fatal("alias-qualified base should resolve")
	}
}

func TestBindPartialClass(t *testing.T) {
	b := bind(t, map[string]string{
		"A.cs": "namespace Game { partial class P : UnityEngine.MonoBehaviour { public int a; } }\n",
		"B.cs": "namespace Game { partial class P { public int b; } }\n",
	}, "B.cs", "A.cs")
	a, bb := declByName(b, "a"), declByName(b, "b")
	if a.Owner != bb.Owner {
		t.Fatal("partial declarations must share one node")
	}
	if !symbols.IsOrInheritsByName(bb.Owner, mono) {
		t.Fatal("base from the other part should apply")
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := map[string]float64{
		"1.5f":   1.5,
		"10UL":   10,
		"0x1F":   31,
		"1_000":  1000,
		"-2.5e1": -25,
		"3m":     3,
	}
	for in, want := range tests {
		v := number(in)
		if v.Kind != symbols.ValueNumber || v.Num != want {
			t.Errorf("number(%q) = %+v, want %v", in, v, want)
		}
	}
}

func TestStripGenerics(t *testing.T) {
	name, arity := stripGenerics("A.B<int, C<D, E>>")
	if name != "A.B" || arity != 2 {
		t.Fatalf("stripGenerics = %q, %d", name, arity)
	}
}
