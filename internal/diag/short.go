package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"uclint/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics one per line as
// "severity CODE path:line:col message", sorted by location. Paths are
// relative to the file set's base directory and use forward slashes, so the
// output is stable across machines and suitable for golden comparisons.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		if d, ok := toShort(&diags[i], fs); ok {
			rendered = append(rendered, d)
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func toShort(d *Diagnostic, fs *source.FileSet) (shortDiagnostic, bool) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		return shortDiagnostic{}, false
	}
	start, _ := fs.Resolve(d.Primary)
	return shortDiagnostic{
		Severity: strings.ToLower(d.Severity.String()),
		Code:     d.Code.ID(),
		Path:     filepath.ToSlash(f.FormatPath("relative", fs.BaseDir())),
		Line:     start.Line,
		Column:   start.Col,
		Message:  d.Message,
	}, true
}
