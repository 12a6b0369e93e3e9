package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uclint/internal/fix"
)

const playerSource = `using UnityEngine;

public class Player : MonoBehaviour
{
    public int speed;
    [SerializeField]
    private int health;
}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	closeTracing()
	return out.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCheckShort(t *testing.T) {
	dir := writeProject(t, map[string]string{"Player.cs": playerSource})
	out, err := run(t, "check", "--format", "short", dir)
	if err != nil {
		t.Fatal(err)
	}
	want := "warning UCPrivateField Player.cs:5:16 Field 'speed' is not private. Use properties or methods if you need to expose the value.\n" +
		"warning HasToolTip Player.cs:7:17 Private field 'health' is marked with SerializeField attribute but has no Tooltip attribute.\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}

	_, err = run(t, "check", "--format", "short", "--warnings-as-errors", dir)
	if !errors.As(err, new(errFindings)) {
		t.Fatalf("warnings-as-errors: err = %v", err)
	}
}

func TestCheckFlagErrors(t *testing.T) {
	dir := writeProject(t, map[string]string{"Player.cs": playerSource})
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"check", "--format", "xml", dir}, "unknown format"},
		{"warnings", []string{"check", "--no-warnings", "--warnings-as-errors", dir}, "cannot be used together"},
		{"ui", []string{"check", "--ui", "maybe", dir}, "invalid --ui"},
		{"color", []string{"check", "--color", "always", dir}, "invalid --color"},
		{"missing", []string{"check", filepath.Join(dir, "nope")}, "failed to stat"},
		{"trace level", []string{"--trace-level", "loud", "check", dir}, "invalid trace level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCheckJSONWithPreview(t *testing.T) {
	dir := writeProject(t, map[string]string{"Player.cs": playerSource})
	out, err := run(t, "check", "--format", "json", "--preview", dir)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code  string `json:"code"`
			Fixes []struct {
				ID         string   `json:"id"`
				AfterLines []string `json:"after_lines"`
			} `json:"fixes"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if doc.Count != 2 || len(doc.Diagnostics[0].Fixes) != 1 {
		t.Fatalf("unexpected document:\n%s", out)
	}
	if id := doc.Diagnostics[0].Fixes[0].ID; id != "UCPrivateField@Player.cs:5:16" {
		t.Fatalf("fix id = %q", id)
	}
	if len(doc.Diagnostics[0].Fixes[0].AfterLines) == 0 {
		t.Fatalf("preview missing:\n%s", out)
	}
}

func TestFixAllThenCheck(t *testing.T) {
	dir := writeProject(t, map[string]string{"Player.cs": playerSource})
	out, err := run(t, "fix", "--all", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Applied 2 fix(es):") || !strings.Contains(out, "Player.cs (") {
		t.Fatalf("unexpected fix output:\n%s", out)
	}

	out, err = run(t, "check", "--format", "short", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"HasToolTip Player.cs:6:17", "UCNonEmptyTooltip Player.cs:9:17"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "UCPrivateField") {
		t.Fatalf("field still public:\n%s", out)
	}
}

func TestFixDryRunAndRule(t *testing.T) {
	dir := writeProject(t, map[string]string{"Player.cs": playerSource})
	out, err := run(t, "fix", "--all", "--dry-run", "--rule", "HasToolTip", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Would apply 1 fix(es):") || !strings.Contains(out, fix.TitleAddTooltip) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "Player.cs"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != playerSource {
		t.Fatal("dry run modified the file")
	}
}

func TestReadApplyOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"id and all", []string{"--id", "x", "--all"}, "--id cannot be combined"},
		{"all and once", []string{"--all", "--once"}, "mutually exclusive"},
		{"rule", []string{"--rule", "Nope"}, `unknown rule "Nope"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newFixCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			_, err := readApplyOptions(cmd)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}

	cmd := newFixCmd()
	if err := cmd.ParseFlags([]string{"--id", "HasToolTip@A.cs:1:2"}); err != nil {
		t.Fatal(err)
	}
	opts, err := readApplyOptions(cmd)
	if err != nil || opts.Mode != fix.ApplyModeID || opts.TargetID != "HasToolTip@A.cs:1:2" {
		t.Fatalf("opts = %+v, err = %v", opts, err)
	}
}

func TestWriteBaseline(t *testing.T) {
	dir := writeProject(t, map[string]string{"Player.cs": playerSource})
	out, err := run(t, "check", "--write-baseline", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Wrote 2 finding(s)") {
		t.Fatalf("unexpected output: %q", out)
	}
	if out, err = run(t, "check", "--format", "short", dir); err != nil || out != "" {
		t.Fatalf("baselined findings reported: %q, %v", out, err)
	}
	if out, _ = run(t, "check", "--format", "short", "--no-baseline", dir); strings.Count(out, "\n") != 2 {
		t.Fatalf("--no-baseline: %q", out)
	}
}

func TestRulesHonourConfig(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"uclint.toml": "[rules.UCPrivateField]\nenabled = false\n\n[rules.HasToolTip]\nseverity = \"error\"\n",
	})
	out, err := run(t, "rules", "--format", "json", dir)
	if err != nil {
		t.Fatal(err)
	}
	var rows []ruleRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %+v", rows)
	}
	for _, r := range rows {
		switch r.ID {
		case "UCPrivateField":
			if r.Enabled {
				t.Errorf("%s should be disabled", r.ID)
			}
		case "HasToolTip":
			if r.Severity != "ERROR" || !r.Enabled {
				t.Errorf("%s: %+v", r.ID, r)
			}
		}
	}

	out, err = run(t, "rules", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "off UCPrivateField") {
		t.Fatalf("pretty listing:\n%s", out)
	}
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "game")
	if _, err := run(t, "init", dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "uclint.toml")); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "init", dir); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second init: %v", err)
	}
	if _, err := run(t, "init", "--force", dir); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "rules", dir); err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "uclint" || p.Version == "" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		if got, err := readUIMode(in); err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	var buf bytes.Buffer
	if shouldUseTUI(uiModeAuto, &buf, "pretty") {
		t.Error("auto must stay off for non-terminals")
	}
	if !shouldUseTUI(uiModeOn, &buf, "json") {
		t.Error("on forces the view")
	}
}
