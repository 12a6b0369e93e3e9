package diagfmt

import "strings"

// PreviewLines returns the block of lines that differ between before and
// after. Unchanged leading and trailing lines are dropped; context keeps
// that many of them around the block.
func PreviewLines(before, after []byte, context int) ([]string, []string) {
	b := splitLines(string(before))
	a := splitLines(string(after))

	prefix := 0
	for prefix < len(b) && prefix < len(a) && b[prefix] == a[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(b)-prefix && suffix < len(a)-prefix && b[len(b)-1-suffix] == a[len(a)-1-suffix] {
		suffix++
	}
	if prefix == len(b) && prefix == len(a) {
		return nil, nil
	}

	start := max(prefix-context, 0)
	endB := min(len(b)-suffix+context, len(b))
	endA := min(len(a)-suffix+context, len(a))
	return b[start:endB], a[start:endA]
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
