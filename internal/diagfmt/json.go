package diagfmt

import (
	"encoding/json"
	"io"

	"uclint/internal/diag"
	"uclint/internal/fix"
	"uclint/internal/source"
)

// LocationJSON is a position in a source file.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// FixJSON is one fix offered for a finding.
type FixJSON struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	EquivalenceKey string   `json:"equivalence_key"`
	BeforeLines    []string `json:"before_lines,omitempty"`
	AfterLines     []string `json:"after_lines,omitempty"`
}

// DiagnosticJSON is one finding.
type DiagnosticJSON struct {
	Severity   string            `json:"severity"`
	Code       string            `json:"code"`
	Category   string            `json:"category"`
	Message    string            `json:"message"`
	Name       string            `json:"name,omitempty"`
	Location   LocationJSON      `json:"location"`
	Properties map[string]string `json:"properties,omitempty"`
	Fixes      []FixJSON         `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, mode PathMode, positions bool) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	f := fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = formatPath(f, fs, mode)
	if positions {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, n)}
	for _, d := range items[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Category: d.Category.String(),
			Message:  d.Message,
			Name:     d.Name(),
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		if len(d.Properties) > 0 {
			dj.Properties = make(map[string]string, len(d.Properties))
			for k, v := range d.Properties {
				dj.Properties[k] = v
			}
		}
		if opts.IncludeFixes {
			for _, s := range d.Fixes {
				fj := FixJSON{ID: fix.CandidateID(fs, d), Title: s.Title, EquivalenceKey: s.EquivalenceKey}
				if opts.Preview != nil {
					if before, after, ok := opts.Preview(d); ok {
						fj.BeforeLines, fj.AfterLines = before, after
					}
				}
				dj.Fixes = append(dj.Fixes, fj)
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
