package paper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// The authors column of the papers table holds a list literal:
//
//	['Ada Lovelace', "Charles O'Brien", 'Name with \\ backslash']
//
// Items are quoted with ' unless the item contains a ' and no ", in which case
// " is used. Inside an item the escapes \\ \' \" \n \r \t \xHH \uHHHH and
// \UHHHHHHHH are recognized, each naming a code point. Items are text: invalid
// UTF-8 bytes are written as U+FFFD. Whitespace between tokens is ignored and
// a trailing comma is accepted. This is the form older tables were written in, so they load
// unchanged.

// ErrListSyntax is returned when a list literal cannot be parsed.
var ErrListSyntax = errors.New("invalid list literal")

// FormatList serializes a list of strings as a list literal.
func FormatList(items []string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeQuoted(&sb, item)
	}
	sb.WriteByte(']')
	return sb.String()
}

func writeQuoted(sb *strings.Builder, s string) {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	sb.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(sb, `\x%02x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(quote)
}

// ParseList parses a list literal produced by FormatList.
func ParseList(s string) ([]string, error) {
	p := listParser{src: s}
	return p.parse()
}

type listParser struct {
	src string
	pos int
}

func (p *listParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrListSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *listParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *listParser) parse() ([]string, error) {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '[' {
		return nil, p.errorf("expected '['")
	}
	p.pos++

	items := []string{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated list")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			break
		}

		item, err := p.parseString()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			// handled at the top of the loop
		default:
			return nil, p.errorf("expected ',' or ']', got %q", p.src[p.pos])
		}
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing characters %q", p.src[p.pos:])
	}
	return items, nil
}

func (p *listParser) parseString() (string, error) {
	quote := p.src[p.pos]
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected quoted string, got %q", quote)
	}
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if err := p.parseEscape(&sb); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *listParser) parseEscape(sb *strings.Builder) error {
	p.pos++ // backslash
	if p.pos >= len(p.src) {
		return p.errorf("dangling escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'x':
		return p.parseHex(sb, 2)
	case 'u':
		return p.parseHex(sb, 4)
	case 'U':
		return p.parseHex(sb, 8)
	default:
		return p.errorf("unknown escape \\%c", c)
	}
	return nil
}

func (p *listParser) parseHex(sb *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.errorf("short hex escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return p.errorf("bad hex escape %q", p.src[p.pos:p.pos+digits])
	}
	if !utf8.ValidRune(rune(v)) {
		return p.errorf("invalid code point %q", p.src[p.pos:p.pos+digits])
	}
	p.pos += digits
	sb.WriteRune(rune(v))
	return nil
}
