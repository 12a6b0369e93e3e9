package fix

import (
	"context"
	"errors"
	"strings"
	"testing"

	"uclint/internal/binder"
	"uclint/internal/catalog"
	"uclint/internal/diag"
	"uclint/internal/rules"
	"uclint/internal/source"
	"uclint/internal/syntax"
)

func parse(t *testing.T, fs *source.FileSet, name, text string) *syntax.Tree {
	t.Helper()
	id := fs.AddVirtual(name, []byte(text))
	tree, err := syntax.Parse(context.Background(), fs.Get(id))
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func analyze(t *testing.T, tree *syntax.Tree) []diag.Diagnostic {
	t.Helper()
	cats, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	b := binder.Bind([]*syntax.Tree{tree}, binder.Options{Catalogs: cats})
	env := rules.NewEnv(b.Universe, rules.DefaultTargets())
	return rules.NewEngine(env, nil, nil).Analyze(b.Decls())
}

// reparse renders tree, parses the text as a new file and analyzes it.
func reparse(t *testing.T, tree *syntax.Tree) (string, []diag.Diagnostic) {
	t.Helper()
	text := string(tree.Render())
	next := parse(t, source.NewFileSet(), "fixed.cs", text)
	return text, analyze(t, next)
}

func only(t *testing.T, diags []diag.Diagnostic, code diag.Code) diag.Diagnostic {
	t.Helper()
	var found []diag.Diagnostic
	for _, d := range diags {
		if d.Code == code {
			found = append(found, d)
		}
	}
	if len(found) != 1 {
		t.Fatalf("want exactly one %s, got %d in %+v", code, len(found), diags)
	}
	return found[0]
}

func count(diags []diag.Diagnostic, code diag.Code) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

var engine = DefaultEngine(rules.DefaultTargets())

func TestMakePrivate(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		exposed string
		want    string
	}{
		{
			name:    "adds SerializeField",
			field:   "    public float speed;",
			exposed: "false",
			want:    "    [SerializeField]\n    private float speed;",
		},
		{
			name:    "keeps existing SerializeField",
			field:   "    [SerializeField] public float speed;",
			exposed: "true",
			want:    "    [SerializeField] private float speed;",
		},
		{
			name:    "collapses compound access",
			field:   "    protected internal float speed;",
			exposed: "false",
			want:    "    [SerializeField]\n    private float speed;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "using UnityEngine;\nclass P : MonoBehaviour\n{\n" + tt.field + "\n}\n"
			tree := parse(t, source.NewFileSet(), "P.cs", src)
			d := only(t, analyze(t, tree), diag.PrivateField)
			if got := d.Properties[rules.PropHasSerializeField]; got != tt.exposed {
				t.Fatalf("%s = %q, want %q", rules.PropHasSerializeField, got, tt.exposed)
			}

			res, err := engine.Fix(tree, d)
			if err != nil {
				t.Fatal(err)
			}
			text, after := reparse(t, res.Tree)
			if !strings.Contains(text, tt.want) {
				t.Fatalf("rendered:\n%s\nwant fragment:\n%s", text, tt.want)
			}
			if n := strings.Count(text, "SerializeField"); n != 1 {
				t.Fatalf("SerializeField appears %d times:\n%s", n, text)
			}
			if count(after, diag.PrivateField) != 0 {
				t.Fatal("field is still reported as not private")
			}
			if string(tree.Render()) != src {
				t.Fatal("input tree was modified")
			}
		})
	}
}

func TestMakePrivateNeedsProperty(t *testing.T) {
	tree := parse(t, source.NewFileSet(), "P.cs", "using UnityEngine;\nclass P : MonoBehaviour { public int x; }\n")
	d := only(t, analyze(t, tree), diag.PrivateField)
	for _, props := range []diag.Properties{nil, {rules.PropHasSerializeField: "maybe"}} {
		d.Properties = props
		if _, err := engine.Fix(tree, d); !errors.Is(err, ErrNotApplicable) {
			t.Fatalf("props %v: err = %v, want ErrNotApplicable", props, err)
		}
	}
}

func TestAddTooltipCascade(t *testing.T) {
	src := "using UnityEngine;\nclass P : MonoBehaviour\n{\n    [SerializeField]\n    private int health;\n}\n"
	tree := parse(t, source.NewFileSet(), "P.cs", src)
	d := only(t, analyze(t, tree), diag.HasTooltip)

	res, err := engine.Fix(tree, d)
	if err != nil {
		t.Fatal(err)
	}
	want := "    [SerializeField]\n    [Tooltip(\"\")]\n    private int health;"
	text, after := reparse(t, res.Tree)
	if !strings.Contains(text, want) {
		t.Fatalf("rendered:\n%s", text)
	}
	if count(after, diag.HasTooltip) != 0 {
		t.Fatal("HasToolTip must stop after the fix")
	}
	only(t, after, diag.NonEmptyTooltip)

	// the rewritten tree itself binds the same way
	direct := analyze(t, res.Tree)
	if count(direct, diag.HasTooltip) != 0 || count(direct, diag.NonEmptyTooltip) != 1 {
		t.Fatalf("structural re-analysis = %+v", direct)
	}
}

func TestAddTooltipTwiceAddsTwo(t *testing.T) {
	tree := parse(t, source.NewFileSet(), "P.cs", "using UnityEngine;\nclass P : MonoBehaviour { [SerializeField] int x; }\n")
	d := only(t, analyze(t, tree), diag.HasTooltip)
	first, err := engine.Fix(tree, d)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Fix(first.Tree, d)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(second.Tree.Render()), "Tooltip"); n != 2 {
		t.Fatalf("Tooltip count = %d", n)
	}
}

func TestStaleDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	tree := parse(t, fs, "P.cs", "using UnityEngine;\nclass P : MonoBehaviour { public int x; }\n")
	d := only(t, analyze(t, tree), diag.PrivateField)
	other := parse(t, fs, "Q.cs", "class Q { }\n")

	renamed := d
	renamed.Args = []string{"z"}
	shifted := d
	shifted.Primary.Start--

	tests := map[string]struct {
		tree *syntax.Tree
		d    diag.Diagnostic
	}{
		"renamed":    {tree, renamed},
		"shifted":    {tree, shifted},
		"other file": {other, d},
		"nil tree":   {nil, d},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := engine.Fix(tt.tree, tt.d); !errors.Is(err, ErrNotApplicable) {
				t.Fatalf("err = %v, want ErrNotApplicable", err)
			}
		})
	}
	if _, err := (AddTooltip{}).Apply(tree, d); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("wrong provider: err = %v", err)
	}
}

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := append(append(append([]int{}, p[:i]...), n-1), p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func TestFixAllOrderIndependent(t *testing.T) {
	src := `using UnityEngine;
class P : MonoBehaviour
{
    public int a;
    [SerializeField]
    private int b;
    protected int c;
    [SerializeField] internal float d;
}
`
	tree := parse(t, source.NewFileSet(), "P.cs", src)
	diags := analyze(t, tree)
	if len(diags) != 4 {
		t.Fatalf("want 4 diagnostics, got %+v", diags)
	}

	var want string
	for _, perm := range permutations(len(diags)) {
		ordered := make([]diag.Diagnostic, len(perm))
		for i, idx := range perm {
			ordered[i] = diags[idx]
		}
		batch := engine.FixAll(tree, ordered)
		if len(batch.Applied) != 4 || len(batch.Skipped) != 0 {
			t.Fatalf("perm %v: applied %d, skipped %+v", perm, len(batch.Applied), batch.Skipped)
		}
		got := string(batch.Tree.Render())
		if want == "" {
			want = got
			continue
		}
		if got != want {
			t.Fatalf("perm %v produced:\n%s\nwant:\n%s", perm, got, want)
		}
	}

	// a, c and d become serialized private fields without a tooltip
	_, after := reparse(t, engine.FixAll(tree, diags).Tree)
	if count(after, diag.PrivateField) != 0 || count(after, diag.HasTooltip) != 3 || count(after, diag.NonEmptyTooltip) != 1 {
		t.Fatalf("after batch: %+v", after)
	}
	if string(tree.Render()) != src {
		t.Fatal("input tree was modified")
	}
}

func TestFixAllSameDeclaration(t *testing.T) {
	tree := parse(t, source.NewFileSet(), "P.cs", "using UnityEngine;\nclass P : MonoBehaviour { public int a, b; }\n")
	diags := analyze(t, tree)
	if len(diags) != 2 {
		t.Fatalf("want 2 diagnostics, got %d", len(diags))
	}
	batch := engine.FixAll(tree, diags)
	if len(batch.Applied) != 1 || len(batch.Skipped) != 1 {
		t.Fatalf("applied %d skipped %d", len(batch.Applied), len(batch.Skipped))
	}
	if batch.Applied[0].Diagnostic.Name() != "a" {
		t.Fatal("the first diagnostic wins")
	}
	if got := string(batch.Tree.Render()); !strings.Contains(got, "[SerializeField] private int a, b;") {
		t.Fatalf("rendered %q", got)
	}
}

func TestSuggestions(t *testing.T) {
	s := engine.Suggestions(diag.Diagnostic{Code: diag.HasTooltip})
	if len(s) != 1 || s[0].Title != TitleAddTooltip || s[0].EquivalenceKey != TitleAddTooltip {
		t.Fatalf("suggestions = %+v", s)
	}
	if len(engine.Suggestions(diag.Diagnostic{Code: diag.NonEmptyTooltip})) != 0 {
		t.Fatal("UCNonEmptyTooltip has no automatic fix")
	}
}
