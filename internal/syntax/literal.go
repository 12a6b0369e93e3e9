package syntax

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// LiteralKind classifies an attribute argument expression.
type LiteralKind uint8

const (
	// LitOther is any expression that is not a plain literal.
	LitOther LiteralKind = iota
	LitString
	LitNumber
	LitBool
	LitNull
)

// Literal is an argument value. Value holds the decoded string for LitString,
// the literal text for LitNumber and LitBool, and the expression text for
// LitOther.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// StringLiteral builds a string literal value.
func StringLiteral(s string) Literal {
	return Literal{Kind: LitString, Value: s}
}

// Source renders the literal as C# source.
func (l Literal) Source() string {
	switch l.Kind {
	case LitString:
		return quote(l.Value)
	case LitNull:
		return "null"
	default:
		return l.Value
	}
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// decodeString decodes regular, verbatim and raw string literal text.
func decodeString(text string) (string, bool) {
	text = strings.TrimSuffix(strings.TrimSuffix(text, "u8"), "U8")
	switch {
	case strings.HasPrefix(text, `"""`):
		return decodeRaw(text)
	case strings.HasPrefix(text, `@"`):
		if len(text) < 3 || !strings.HasSuffix(text, `"`) {
			return "", false
		}
		return strings.ReplaceAll(text[2:len(text)-1], `""`, `"`), true
	case strings.HasPrefix(text, `"`):
		if len(text) < 2 || !strings.HasSuffix(text, `"`) {
			return "", false
		}
		return unescape(text[1 : len(text)-1])
	}
	return "", false
}

func unescape(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, true
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case '\'', '"', '\\':
			b.WriteByte(s[i])
		case '0':
			b.WriteByte(0)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'u', 'U', 'x':
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			digits := hexPrefix(s[i+1:], width)
			if digits == "" || (s[i] != 'x' && len(digits) != width) {
				return "", false
			}
			r, err := strconv.ParseUint(digits, 16, 32)
			if err != nil || !utf8.ValidRune(rune(r)) {
				return "", false
			}
			b.WriteRune(rune(r))
			i += len(digits)
		default:
			return "", false
		}
	}
	return b.String(), true
}

func hexPrefix(s string, max int) string {
	n := 0
	for n < len(s) && n < max && strings.IndexByte("0123456789abcdefABCDEF", s[n]) >= 0 {
		n++
	}
	return s[:n]
}

// decodeRaw handles """...""" literals. Multi-line literals drop the first and
// last line and the closing line's indentation from every content line.
func decodeRaw(text string) (string, bool) {
	n := 0
	for n < len(text) && text[n] == '"' {
		n++
	}
	if len(text) < 2*n || !strings.HasSuffix(text, strings.Repeat(`"`, n)) {
		return "", false
	}
	body := text[n : len(text)-n]
	if !strings.Contains(body, "\n") {
		return body, true
	}
	lines := strings.Split(body, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "" {
		return "", false
	}
	indent := lines[len(lines)-1]
	if strings.TrimSpace(indent) != "" {
		return "", false
	}
	content := lines[1 : len(lines)-1]
	for i, line := range content {
		content[i] = strings.TrimPrefix(line, indent)
	}
	return strings.Join(content, "\n"), true
}
