package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"uclint/internal/diag"
	"uclint/internal/rules"
	"uclint/internal/source"
)

const playerSrc = "class Player : MonoBehaviour\n{\n\tpublic float speed;\n}\n"

// fixture: one UCPrivateField finding on "speed"
func fixture(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("/home/user/game/Assets/Player.cs", []byte(playerSrc))
	fs.SetBaseDir("/home/user/game")

	start := uint32(strings.Index(playerSrc, "speed"))
	d := (&rules.PrivateFieldRule{}).Descriptor().New(source.Span{File: id, Start: start, End: start + 5}, "speed").
		WithProperty(rules.PropHasSerializeField, "false").
		WithFixSuggestion(diag.FixSuggestion{Title: "Make private", EquivalenceKey: "Make private"})
	bag := diag.NewBag(10)
	bag.Add(d)
	return bag, fs
}

func TestPrettyPathModes(t *testing.T) {
	bag, fs := fixture(t)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/game/Assets/Player.cs:3:15:"},
		{"relative", PathModeRelative, "Assets/Player.cs:3:15:"},
		{"basename", PathModeBasename, "Player.cs:3:15:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatal(err)
			}
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Fatalf("missing %q in:\n%s", tt.contains, out)
			}
			if !strings.Contains(out, "WARNING UCPrivateField: Field 'speed' is not private.") {
				t.Fatalf("header missing in:\n%s", out)
			}
		})
	}
}

func TestPrettyCaret(t *testing.T) {
	bag, fs := fixture(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, Context: 1, ShowFixes: true}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Assets/Player.cs:3:15: WARNING UCPrivateField: Field 'speed' is not private. Use properties or methods if you need to expose the value.",
		"2 | {",
		"3 |     public float speed;",
		"  |                  ^~~~~",
		"  fix: Make private (UCPrivateField@Assets/Player.cs:3:15)",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyPreview(t *testing.T) {
	bag, fs := fixture(t)
	preview := func(diag.Diagnostic) ([]string, []string, bool) {
		return []string{"\tpublic float speed;"}, []string{"\t[SerializeField]", "\tprivate float speed;"}, true
	}
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Preview: preview}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"  preview:", "    -     public float speed;", "    +     [SerializeField]"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in:\n%s", want, buf.String())
		}
	}
}

func TestJSON(t *testing.T) {
	bag, fs := fixture(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeRelative, IncludeFixes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "UCPrivateField" || d.Category != "Design" || d.Name != "speed" || d.Severity != "WARNING" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.File != "Assets/Player.cs" || d.Location.StartLine != 3 || d.Location.StartCol != 15 {
		t.Fatalf("location = %+v", d.Location)
	}
	if d.Properties[rules.PropHasSerializeField] != "false" {
		t.Fatalf("properties = %v", d.Properties)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].ID != "UCPrivateField@Assets/Player.cs:3:15" {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := fixture(t)
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "uclint", ToolVersion: "test", Rules: rules.DefaultRegistry().Descriptors()}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatal(err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine  int `json:"startLine"`
							ByteOffset int `json:"byteOffset"`
							ByteLength int `json:"byteLength"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 || len(log.Runs[0].Tool.Driver.Rules) != 3 {
		t.Fatalf("log = %+v", log)
	}
	res := log.Runs[0].Results
	if len(res) != 1 || res[0].Level != "warning" || res[0].Locations[0].PhysicalLocation.ArtifactLocation.URI != "Assets/Player.cs" {
		t.Fatalf("results = %+v", res)
	}
	region := res[0].Locations[0].PhysicalLocation.Region
	if region.StartLine != 3 || region.ByteOffset != strings.Index(playerSrc, "speed") || region.ByteLength != len("speed") {
		t.Fatalf("region = %+v", region)
	}
	if log.Runs[0].Tool.Driver.Rules[res[0].RuleIndex].ID != "UCPrivateField" {
		t.Fatal("ruleIndex points at the wrong rule")
	}
}

func TestPreviewLines(t *testing.T) {
	before := []byte("a\nb\nc\nd\n")
	after := []byte("a\nb\nX\nY\nd\n")
	b, a := PreviewLines(before, after, 0)
	if strings.Join(b, "|") != "c" || strings.Join(a, "|") != "X|Y" {
		t.Fatalf("got %q / %q", b, a)
	}
	b, a = PreviewLines(before, after, 1)
	if strings.Join(b, "|") != "b|c|d" || strings.Join(a, "|") != "b|X|Y|d" {
		t.Fatalf("context: got %q / %q", b, a)
	}
	if b, a = PreviewLines(before, before, 2); b != nil || a != nil {
		t.Fatal("identical input must yield nothing")
	}
}
