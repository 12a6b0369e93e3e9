// Package diagfmt renders findings for people and tools: pretty terminal
// output, JSON and SARIF 2.1.0. The one-line short form lives in diag.
package diagfmt

import (
	"path/filepath"

	"uclint/internal/diag"
	"uclint/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto uses the path as loaded, shortening long absolute ones.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// Previewer returns the source lines around d before and after its fix.
type Previewer func(d diag.Diagnostic) (before, after []string, ok bool)

// PrettyOpts configures pretty-printing of findings.
type PrettyOpts struct {
	Color    bool
	Context  int8 // source lines shown above the primary line
	PathMode PathMode
	// ShowFixes lists fix titles with the id accepted by `uclint fix --id`.
	ShowFixes bool
	Preview   Previewer
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	IncludePositions bool // line/col in addition to byte offsets
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeFixes     bool
	Preview          Previewer
}

// SarifRunMeta describes the tool run for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	// Rules are reported in tool.driver.rules; results refer to them by index.
	Rules []diag.Descriptor
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	var p string
	switch mode {
	case PathModeAbsolute:
		p = f.FormatPath("absolute", "")
	case PathModeRelative:
		p = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		p = f.FormatPath("basename", "")
	default:
		p = f.FormatPath("auto", "")
	}
	return filepath.ToSlash(p)
}
