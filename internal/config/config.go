// Package config loads uclint.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"uclint/internal/diag"
	"uclint/internal/rules"
	"uclint/internal/symbols"
)

// FileName is the name looked up in the target directory and its parents.
const FileName = "uclint.toml"

// ErrNoConfig is returned by Find-based helpers when no file exists.
var ErrNoConfig = errors.New("no " + FileName + " found")

type Config struct {
	Project  ProjectConfig         `toml:"project"`
	Targets  TargetsConfig         `toml:"targets"`
	Rules    map[string]RuleConfig `toml:"rules"`
	Analysis AnalysisConfig        `toml:"analysis"`
}

type ProjectConfig struct {
	Module          string   `toml:"module"`
	Exclude         []string `toml:"exclude"`
	Catalogs        []string `toml:"catalogs"`
	BuiltinCatalogs *bool    `toml:"builtin_catalogs"`
}

// TargetsConfig holds assembly-qualified names ("Ns.Name, Module").
type TargetsConfig struct {
	Behavior    string `toml:"behavior"`
	Expose      string `toml:"expose"`
	Description string `toml:"description"`
}

type RuleConfig struct {
	Enabled  *bool  `toml:"enabled"`
	Severity string `toml:"severity"`
}

type AnalysisConfig struct {
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Baseline       string `toml:"baseline"`
}

// Manifest is a loaded configuration with its location. Path is empty when
// defaults are used because no file was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the settings used when no file exists.
func Default() Config {
	t := rules.DefaultTargets()
	return Config{
		Project: ProjectConfig{
			Module:  "Assembly-CSharp",
			Exclude: []string{"Library", "Temp", "obj", "Logs", "Packages"},
		},
		Targets: TargetsConfig{
			Behavior:    t.Behavior.String(),
			Expose:      t.Expose.String(),
			Description: t.Description.String(),
		},
		Analysis: AnalysisConfig{
			MaxDiagnostics: 0,
			Baseline:       ".uclint-baseline",
		},
	}
}

// Find walks from startDir up to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration for startDir. Without a file
// the defaults are returned, rooted at startDir (or its directory).
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		return &Manifest{Root: root, Config: Default()}, nil
	}
	return LoadManifest(path)
}

// LoadManifest loads an explicit file.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(abs)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("project", "module") && strings.TrimSpace(cfg.Project.Module) == "" {
		return Config{}, fmt.Errorf("%s: [project].module must not be empty", path)
	}
	if cfg.Analysis.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [analysis].jobs must be >= 0", path)
	}
	if cfg.Analysis.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [analysis].max_diagnostics must be >= 0", path)
	}
	if _, err := cfg.RuleTargets(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := cfg.Overrides(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// RuleTargets parses the [targets] section.
func (c Config) RuleTargets() (rules.Targets, error) {
	var t rules.Targets
	for _, f := range []struct {
		key  string
		text string
		dst  *symbols.TypeIdentity
	}{
		{"behavior", c.Targets.Behavior, &t.Behavior},
		{"expose", c.Targets.Expose, &t.Expose},
		{"description", c.Targets.Description, &t.Description},
	} {
		id, err := symbols.ParseIdentity(f.text)
		if err != nil {
			return rules.Targets{}, fmt.Errorf("[targets].%s: %w", f.key, err)
		}
		if id.Module == "" {
			return rules.Targets{}, fmt.Errorf("[targets].%s: module is required (\"Ns.Name, Module\")", f.key)
		}
		*f.dst = id
	}
	return t, nil
}

// Overrides converts [rules.<ID>] sections. Unknown rule ids are an error.
func (c Config) Overrides() (map[diag.Code]rules.Override, error) {
	if len(c.Rules) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make(map[diag.Code]rules.Override, len(ids))
	for _, id := range ids {
		code, ok := diag.ParseCode(id)
		if !ok {
			return nil, fmt.Errorf("[rules.%s]: unknown rule", id)
		}
		rc := c.Rules[id]
		o := rules.Override{Enabled: rc.Enabled}
		if rc.Severity != "" {
			sev, err := diag.ParseSeverity(rc.Severity)
			if err != nil {
				return nil, fmt.Errorf("[rules.%s].severity: %w", id, err)
			}
			o.Severity = &sev
		}
		out[code] = o
	}
	return out, nil
}

// UseBuiltinCatalogs reports whether the embedded catalogs are installed.
func (c Config) UseBuiltinCatalogs() bool {
	return c.Project.BuiltinCatalogs == nil || *c.Project.BuiltinCatalogs
}

// CatalogPaths resolves [project].catalogs against the manifest root.
func (m *Manifest) CatalogPaths() []string {
	out := make([]string, 0, len(m.Config.Project.Catalogs))
	for _, p := range m.Config.Project.Catalogs {
		out = append(out, m.resolve(p))
	}
	return out
}

// BaselinePath resolves [analysis].baseline; empty when disabled.
func (m *Manifest) BaselinePath() string {
	if strings.TrimSpace(m.Config.Analysis.Baseline) == "" {
		return ""
	}
	return m.resolve(m.Config.Analysis.Baseline)
}

// Excluded reports whether a directory name is listed in [project].exclude.
func (m *Manifest) Excluded(name string) bool {
	for _, ex := range m.Config.Project.Exclude {
		if strings.EqualFold(ex, name) {
			return true
		}
	}
	return false
}

func (m *Manifest) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}
