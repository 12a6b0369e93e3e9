package symbols

import "testing"

func TestResolveExternalType(t *testing.T) {
	u := NewUniverse()
	first := u.AddModule("UnityEngine")
	first.Declare("UnityEngine", "Object")
	second := u.AddModule("unityengine") // another version, different casing
	tooltipV2 := second.Declare("UnityEngine", "TooltipAttribute")
	third := u.AddModule("UNITYENGINE")
	third.Declare("UnityEngine", "TooltipAttribute")

	id := TypeIdentity{Name: "TooltipAttribute", Namespace: "UnityEngine", Module: "UnityEngine"}
	got, ok := u.ResolveExternalType(id, "UnityEngine")
	if !ok {
		t.Fatal("expected type to resolve")
	}
	if got != tooltipV2 {
		t.Errorf("expected the first module that declares the type, got %s from %s", got, got.Module().Name())
	}

	if _, ok := u.ResolveExternalType(id, "UnityEditor"); ok {
		t.Error("module hint must restrict the search")
	}
	missing := TypeIdentity{Name: "Missing", Namespace: "UnityEngine"}
	if _, ok := u.ResolveExternalType(missing, "UnityEngine"); ok {
		t.Error("unknown type must not resolve")
	}
}

func TestDeclareIsIdempotent(t *testing.T) {
	u := NewUniverse()
	m := u.AddModule("Assembly-CSharp")
	a := m.Declare("Game", "Player")
	b := m.Declare("Game", "Player")
	if a != b {
		t.Fatal("partial declarations must share one node")
	}
	if len(m.Types()) != 1 {
		t.Fatalf("Types() = %d entries", len(m.Types()))
	}
	if a.Identity().Module != "Assembly-CSharp" {
		t.Errorf("module component = %q", a.Identity().Module)
	}
}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		in      string
		want    TypeIdentity
		wantErr bool
	}{
		{in: "UnityEngine.MonoBehaviour, UnityEngine", want: TypeIdentity{Name: "MonoBehaviour", Namespace: "UnityEngine", Module: "UnityEngine"}},
		{in: "  Game.AI.Brain ,Assembly-CSharp ", want: TypeIdentity{Name: "Brain", Namespace: "Game.AI", Module: "Assembly-CSharp"}},
		{in: "Global", want: TypeIdentity{Name: "Global"}},
		{in: ", UnityEngine", wantErr: true},
		{in: "UnityEngine., UnityEngine", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIdentity(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if back, _ := ParseIdentity(got.String()); back != got {
				t.Errorf("String() does not round-trip: %q", got.String())
			}
		})
	}
}
