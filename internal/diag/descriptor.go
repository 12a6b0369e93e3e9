package diag

import (
	"strconv"
	"strings"

	"uclint/internal/source"
)

// Descriptor is the static description a rule registers under its Code.
type Descriptor struct {
	ID               Code
	Title            string
	MessageFormat    string // positional slots "{0}", "{1}", ...
	Category         Category
	DefaultSeverity  Severity
	EnabledByDefault bool
	Description      string
}

// New creates a diagnostic at primary with the descriptor's defaults.
func (d Descriptor) New(primary source.Span, args ...string) Diagnostic {
	return Diagnostic{
		Severity: d.DefaultSeverity,
		Code:     d.ID,
		Category: d.Category,
		Message:  FormatMessage(d.MessageFormat, args...),
		Args:     append([]string(nil), args...),
		Primary:  primary,
	}
}

// FormatMessage substitutes "{n}" slots with args[n]. Slots without a
// matching argument are left as written.
func FormatMessage(format string, args ...string) string {
	if len(args) == 0 || !strings.Contains(format, "{") {
		return format
	}
	var b strings.Builder
	b.Grow(len(format))
	for i := 0; i < len(format); i++ {
		if format[i] != '{' {
			b.WriteByte(format[i])
			continue
		}
		end := strings.IndexByte(format[i:], '}')
		if end < 0 {
			b.WriteString(format[i:])
			break
		}
		n, err := strconv.Atoi(format[i+1 : i+end])
		if err != nil || n < 0 || n >= len(args) {
			b.WriteString(format[i : i+end+1])
		} else {
			b.WriteString(args[n])
		}
		i += end
	}
	return b.String()
}
