package driver

import (
	"uclint/internal/baseline"
	"uclint/internal/diag"
)

func (r *Result) baselineKey(f *FileResult, d diag.Diagnostic) (baseline.Key, bool) {
	if f.Tree == nil {
		return baseline.Key{}, false
	}
	ref, _, ok := f.Tree.FindDeclarator(d.Primary)
	if !ok {
		return baseline.Key{}, false
	}
	return baseline.Key{
		Rule:  d.Code.ID(),
		Path:  f.Path,
		Type:  f.Tree.Types[ref.Type].FullName(),
		Field: d.Name(),
	}, true
}

// BaselineKey returns the baseline entry for a finding of this result.
func (r *Result) BaselineKey(d diag.Diagnostic) (baseline.Key, bool) {
	for i := range r.Files {
		if r.Files[i].FileID == d.Primary.File {
			return r.baselineKey(&r.Files[i], d)
		}
	}
	return baseline.Key{}, false
}

// WriteBaseline records every finding in All at path and returns the number
// of entries written.
func (r *Result) WriteBaseline(path string) (int, error) {
	b := baseline.New()
	for _, d := range r.All {
		if key, ok := r.BaselineKey(d); ok {
			b.Add(key)
		}
	}
	if err := b.Save(path); err != nil {
		return 0, err
	}
	return b.Len(), nil
}
