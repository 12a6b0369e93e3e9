package symbols

import (
	"fmt"
	"testing"
)

func chain(n int) []*TypeNode {
	nodes := make([]*TypeNode, n)
	for i := range nodes {
		nodes[i] = NewType(TypeIdentity{Name: fmt.Sprintf("T%d", i), Namespace: "Game", Module: "Assembly-CSharp"})
	}
	// nodes[i+1] is the base of nodes[i]
	for i := 0; i+1 < n; i++ {
		nodes[i].SetBase(nodes[i+1])
	}
	return nodes
}

func TestIsOrInheritsReflexive(t *testing.T) {
	root := NewType(TypeIdentity{Name: "Object", Namespace: "System", Module: "mscorlib"})
	if !IsOrInherits(root, root) {
		t.Fatal("a type must be-or-inherit itself")
	}
	if !IsOrInheritsByName(root, root.Identity()) {
		t.Fatal("a type must be-or-inherit its own identity")
	}
}

func TestIsOrInheritsChain(t *testing.T) {
	nodes := chain(6)
	for n := range nodes {
		if !IsOrInherits(nodes[0], nodes[n]) {
			t.Errorf("T0 should inherit T%d", n)
		}
		if !IsOrInheritsByName(nodes[0], nodes[n].Identity()) {
			t.Errorf("T0 should inherit T%d by name", n)
		}
	}
	if IsOrInherits(nodes[5], nodes[0]) {
		t.Error("inheritance must not flow towards derived types")
	}
}

func TestIsOrInheritsDisjoint(t *testing.T) {
	a := chain(3)
	b := chain(3)
	if IsOrInherits(a[0], b[2]) {
		t.Error("disjoint chains must not match by reference")
	}
	other := TypeIdentity{Name: "Unrelated", Namespace: "Game", Module: "Assembly-CSharp"}
	if IsOrInheritsByName(a[0], other) {
		t.Error("unrelated identity must not match")
	}
}

func TestIsOrInheritsTerminatesOnCycle(t *testing.T) {
	nodes := chain(4)
	nodes[3].SetBase(nodes[1]) // T1 -> T2 -> T3 -> T1
	stranger := NewType(TypeIdentity{Name: "Stranger"})

	if IsOrInherits(nodes[0], stranger) {
		t.Error("cycle walk must not report a match")
	}
	if IsOrInheritsByName(nodes[0], stranger.Identity()) {
		t.Error("cycle walk by name must not report a match")
	}
	if !IsOrInherits(nodes[0], nodes[3]) {
		t.Error("nodes on the cycle are still reachable")
	}

	self := NewType(TypeIdentity{Name: "Self"})
	self.SetBase(self)
	if IsOrInherits(self, stranger) {
		t.Error("self loop must terminate with false")
	}
}

func TestIsOrInheritsUnresolvedBase(t *testing.T) {
	behaviour := TypeIdentity{Name: "MonoBehaviour", Namespace: "UnityEngine", Module: "UnityEngine"}
	player := NewType(TypeIdentity{Name: "Player", Namespace: "Game"})
	player.SetUnresolvedBase(behaviour)

	if IsOrInheritsByName(player, behaviour) {
		t.Error("an unresolved base must not be matched")
	}
	if got, ok := player.MissingBase(); !ok || got != behaviour {
		t.Errorf("MissingBase = %v, %v", got, ok)
	}
	if player.BaseState() != BaseUnresolved {
		t.Errorf("BaseState = %v", player.BaseState())
	}
}

func TestTargetMatchesModes(t *testing.T) {
	u := NewUniverse()
	engine := u.AddModule("UnityEngine")
	mono := engine.Declare("UnityEngine", "MonoBehaviour")
	game := u.AddModule("Assembly-CSharp")
	player := game.Declare("Game", "Player")
	player.SetBase(mono)
	u.Seal()

	byRef := u.Target(mono.Identity())
	if byRef.Node != mono {
		t.Fatalf("target not resolved: %+v", byRef)
	}
	if !byRef.Matches(player) {
		t.Error("reference match failed")
	}

	// A node from a different universe shares no references; identity is used.
	foreignMono := NewType(mono.Identity())
	foreignPlayer := NewType(TypeIdentity{Name: "Enemy", Namespace: "Game"})
	foreignPlayer.SetBase(foreignMono)
	if !byRef.Matches(foreignPlayer) {
		t.Error("cross-universe match must fall back to identity")
	}

	unresolved := Target{Identity: TypeIdentity{Name: "MonoBehaviour", Namespace: "UnityEngine", Module: "Other"}}
	if unresolved.Matches(player) {
		t.Error("module component must take part in the comparison")
	}
}

func TestSealedUniverseRejectsChanges(t *testing.T) {
	u := NewUniverse()
	m := u.AddModule("Assembly-CSharp")
	a := m.Declare("Game", "A")
	u.Seal()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when relinking a sealed type")
		}
	}()
	a.SetBase(nil)
}
