package driver

import (
	"uclint/internal/diag"
	"uclint/internal/diagfmt"
)

// previewContext is the number of unchanged lines shown around a fix.
const previewContext = 1

// Preview renders the lines d's first fix would change. It satisfies
// diagfmt.Previewer.
func (r *Result) Preview(d diag.Diagnostic) (before, after []string, ok bool) {
	for _, f := range r.Files {
		if f.FileID != d.Primary.File || f.Tree == nil {
			continue
		}
		res, err := r.Fixes.Fix(f.Tree, d)
		if err != nil {
			return nil, nil, false
		}
		before, after = diagfmt.PreviewLines(f.Tree.Source, res.Tree.Render(), previewContext)
		return before, after, before != nil || after != nil
	}
	return nil, nil, false
}
