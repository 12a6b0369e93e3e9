// Package baseline stores findings that a project has accepted, so that
// `uclint check` reports only new ones.
package baseline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the on-disk format changes
const schemaVersion uint16 = 1

// ErrSchema reports a baseline written by an incompatible version.
var ErrSchema = errors.New("baseline: unsupported schema")

// Key identifies an accepted finding. Positions are left out so that edits
// elsewhere in the file do not invalidate the entry.
type Key struct {
	Rule  string `msgpack:"rule"`
	Path  string `msgpack:"path"` // slash separated, relative to the project root
	Type  string `msgpack:"type"` // owning type, "Ns.Outer+Inner"
	Field string `msgpack:"field"`
}

func (k Key) less(o Key) bool {
	if k.Path != o.Path {
		return k.Path < o.Path
	}
	if k.Type != o.Type {
		return k.Type < o.Type
	}
	if k.Field != o.Field {
		return k.Field < o.Field
	}
	return k.Rule < o.Rule
}

// payload is the serialized form.
type payload struct {
	Schema  uint16 `msgpack:"schema"`
	Entries []Key  `msgpack:"entries"`
}

// Baseline is a set of accepted findings. Safe for concurrent use.
type Baseline struct {
	mu   sync.RWMutex
	keys map[Key]struct{}
}

// New returns an empty baseline.
func New() *Baseline {
	return &Baseline{keys: make(map[Key]struct{})}
}

// Load reads a baseline from path. A missing file yields an empty baseline.
func Load(path string) (*Baseline, error) {
	b := New()
	// #nosec G304 -- path comes from configuration
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return b, nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s: decode baseline: %w", path, err)
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%s: %w %d (want %d)", path, ErrSchema, p.Schema, schemaVersion)
	}
	for _, k := range p.Entries {
		b.keys[k] = struct{}{}
	}
	return b, nil
}

// Add records k as accepted.
func (b *Baseline) Add(k Key) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[k] = struct{}{}
}

// Contains reports whether k was accepted. A nil baseline contains nothing.
func (b *Baseline) Contains(k Key) bool {
	if b == nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.keys[k]
	return ok
}

// Len returns the number of entries.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.keys)
}

// Keys returns the entries ordered by path, type, field and rule.
func (b *Baseline) Keys() []Key {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	out := make([]Key, 0, len(b.keys))
	for k := range b.keys {
		out = append(out, k)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Save writes the baseline to path through a temporary file.
func (b *Baseline) Save(path string) error {
	p := payload{Schema: schemaVersion, Entries: b.Keys()}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".baseline-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(&p); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: encode baseline: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// атомарная замена
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
