// Package catalog describes the framework modules a project compiles
// against. A catalog lists the types of one module and their base types; the
// binder installs catalogs into a symbols.Universe next to the project's own
// module so hierarchy walks can reach MonoBehaviour and attribute lookups can
// reach TooltipAttribute.
package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"uclint/internal/symbols"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Catalog is one module's type list.
type Catalog struct {
	Module string  `yaml:"module"`
	Types  []Entry `yaml:"types"`
	// Path is where the catalog was read from; "builtin:<file>" for embedded ones.
	Path string `yaml:"-"`
}

// Entry is one type. Base is "Ns.Name" for a type of the same module or
// "Ns.Name, Module" for one declared elsewhere; empty for a root.
type Entry struct {
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"`
	Base      string `yaml:"base,omitempty"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte, origin string) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%s: decode catalog: %w", origin, err)
	}
	c.Path = origin
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", origin, err)
	}
	return &c, nil
}

// Load reads a catalog file from disk.
func Load(file string) (*Catalog, error) {
	// #nosec G304 -- path comes from the project configuration
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data, file)
}

// Builtin returns the embedded catalogs (mscorlib, UnityEngine) in a fixed
// order.
func Builtin() ([]*Catalog, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	out := make([]*Catalog, 0, len(entries))
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("builtin", e.Name()))
		if err != nil {
			return nil, err
		}
		c, err := Parse(data, "builtin:"+e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (c *Catalog) validate() error {
	if strings.TrimSpace(c.Module) == "" {
		return fmt.Errorf("catalog: module is required")
	}
	seen := make(map[string]bool, len(c.Types))
	for i, t := range c.Types {
		if t.Name == "" {
			return fmt.Errorf("catalog: types[%d]: name is required", i)
		}
		full := symbols.JoinName(t.Namespace, t.Name)
		if seen[full] {
			return fmt.Errorf("catalog: duplicate type %s", full)
		}
		seen[full] = true
	}
	return nil
}

// Install declares every catalog's types in u, one module per catalog in the
// given order, then links base types. Bases that name a module nobody
// provides are recorded as unresolved.
func Install(u *symbols.Universe, catalogs []*Catalog) {
	type pending struct {
		node *symbols.TypeNode
		base string
		mod  string
	}
	var links []pending
	for _, c := range catalogs {
		m := u.AddModule(c.Module)
		for _, t := range c.Types {
			node := m.Declare(t.Namespace, t.Name)
			if t.Base != "" {
				links = append(links, pending{node: node, base: t.Base, mod: c.Module})
			}
		}
	}
	for _, l := range links {
		id := BaseIdentity(l.base, l.mod)
		if base, ok := u.Resolve(id); ok {
			l.node.SetBase(base)
			continue
		}
		l.node.SetUnresolvedBase(id)
	}
}

// BaseIdentity parses a base reference, defaulting the module to defModule.
func BaseIdentity(ref, defModule string) symbols.TypeIdentity {
	if strings.Contains(ref, ",") {
		if id, err := symbols.ParseIdentity(ref); err == nil {
			return id
		}
	}
	ns, name := symbols.SplitName(strings.TrimSpace(ref))
	return symbols.TypeIdentity{Namespace: ns, Name: name, Module: defModule}
}
