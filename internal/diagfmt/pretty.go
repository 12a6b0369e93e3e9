package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"uclint/internal/diag"
	"uclint/internal/fix"
	"uclint/internal/source"
)

const tabWidth = 4

type palette struct {
	path, err, warn, info, code, gutter, caret, fix, add, del *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		path:   mk(color.Bold),
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Faint),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		fix:    mk(color.FgCyan),
		add:    mk(color.FgGreen),
		del:    mk(color.FgRed),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes every finding in bag as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a caret under the declaration name and,
// when enabled, fix titles and previews. bag is expected to be sorted.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := prettyOne(w, d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	var b strings.Builder
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(&b, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
		_, err := io.WriteString(w, b.String())
		return err
	}

	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(&b, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity),
		pal.code.Sprint(d.Code.ID()),
		d.Message,
	)

	gutterWidth := len(fmt.Sprint(start.Line))
	first := start.Line
	if opts.Context > 0 {
		ctx, err := safecast.Conv[uint32](opts.Context)
		if err == nil && ctx < first {
			first -= ctx
		} else {
			first = 1
		}
	}
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(&b, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), expandTabs(f.GetLine(ln)))
	}

	line := f.GetLine(start.Line)
	pad, width := caret(line, start, end)
	fmt.Fprintf(&b, "%s %s%s\n",
		pal.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", pad),
		pal.caret.Sprint("^"+strings.Repeat("~", width-1)),
	)

	if opts.ShowFixes {
		for _, s := range d.Fixes {
			fmt.Fprintf(&b, "  %s %s (%s)\n", pal.fix.Sprint("fix:"), s.Title, fix.CandidateID(fs, d))
		}
	}
	if opts.Preview != nil && len(d.Fixes) > 0 {
		if before, after, ok := opts.Preview(d); ok {
			b.WriteString("  preview:\n")
			for _, l := range before {
				fmt.Fprintf(&b, "    %s\n", pal.del.Sprint("- "+expandTabs(l)))
			}
			for _, l := range after {
				fmt.Fprintf(&b, "    %s\n", pal.add.Sprint("+ "+expandTabs(l)))
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// caret returns the display offset of start in line and the underline width.
func caret(line string, start, end source.LineCol) (int, int) {
	idx := min(int(start.Col)-1, len(line))
	idx = max(idx, 0)
	pad := runewidth.StringWidth(expandTabs(line[:idx]))
	stop := len(line)
	if end.Line == start.Line && end.Col > start.Col {
		stop = min(int(end.Col)-1, len(line))
	}
	width := runewidth.StringWidth(expandTabs(line[idx:stop]))
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
