package syntax

import (
	"bytes"
	"strings"

	"fortio.org/safecast"
)

// suppression is a "#pragma warning disable" region. An empty code covers
// every rule.
type suppression struct {
	code  string
	start uint32
	end   uint32
}

// Suppressed reports whether code is disabled by a pragma at offset.
func (t *Tree) Suppressed(code string, offset uint32) bool {
	for _, s := range t.suppressions {
		if offset >= s.start && offset < s.end && (s.code == "" || s.code == code) {
			return true
		}
	}
	return false
}

func scanPragmas(src []byte) []suppression {
	if !bytes.Contains(src, []byte("#pragma")) {
		return nil
	}
	end, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return nil
	}
	var (
		out  []suppression
		open = map[string]uint32{}
		off  uint32
	)
	for _, line := range bytes.SplitAfter(src, []byte("\n")) {
		lineStart := off
		off += uint32(len(line))
		directive, codes, ok := parsePragma(string(line))
		if !ok {
			continue
		}
		switch directive {
		case "disable":
			for _, c := range codes {
				if _, already := open[c]; !already {
					open[c] = off
				}
			}
		case "restore":
			for c, start := range open {
				if len(codes) == 1 && codes[0] == "" || containsCode(codes, c) {
					out = append(out, suppression{code: c, start: start, end: lineStart})
					delete(open, c)
				}
			}
		}
	}
	for c, start := range open {
		out = append(out, suppression{code: c, start: start, end: end})
	}
	return out
}

// parsePragma recognises "#pragma warning disable|restore [ids]". A directive
// without ids yields the single code "".
func parsePragma(line string) (string, []string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#") {
		return "", nil, false
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(strings.TrimSpace(line[1:]))
	if len(fields) < 3 || fields[0] != "pragma" || fields[1] != "warning" {
		return "", nil, false
	}
	directive := fields[2]
	if directive != "disable" && directive != "restore" {
		return "", nil, false
	}
	var codes []string
	for _, part := range strings.Split(strings.Join(fields[3:], " "), ",") {
		if part = strings.TrimSpace(part); part != "" {
			codes = append(codes, part)
		}
	}
	if len(codes) == 0 {
		codes = []string{""}
	}
	return directive, codes, true
}

func containsCode(codes []string, c string) bool {
	for _, x := range codes {
		if x == c {
			return true
		}
	}
	return false
}
