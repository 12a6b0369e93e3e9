package syntax

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Identifier normalises identifier text so that names compare equal however
// they were spelled: NFC form, no surrounding blanks, and no verbatim "@" on
// any dotted segment.
func Identifier(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if !strings.Contains(s, "@") {
		return s
	}
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = strings.TrimPrefix(p, "@")
	}
	return strings.Join(parts, ".")
}
