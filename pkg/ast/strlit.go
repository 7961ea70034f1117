package ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Sentinel errors for string literal decoding.
var (
	errNotQuoted  = errors.New("string literal is not quoted")
	errBadEscape  = errors.New("invalid escape sequence")
	errUnfinished = errors.New("unterminated escape sequence")
)

const (
	hexByteLen   = 2
	hexUnitLen   = 4
	maxCodePoint = 0x10FFFF
	maxOctal     = 0o377
)

// UnquoteString decodes a quoted JavaScript string literal, including its
// escape sequences and line continuations.
func UnquoteString(raw string) (string, error) {
	if len(raw) < 2 || (raw[0] != '\'' && raw[0] != '"') || raw[len(raw)-1] != raw[0] {
		return "", fmt.Errorf("%w: %q", errNotQuoted, raw)
	}

	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var sb strings.Builder

	var units []uint16

	flush := func() {
		if len(units) > 0 {
			sb.WriteString(string(utf16.Decode(units)))
			units = units[:0]
		}
	}

	for i := 0; i < len(body); {
		if body[i] != '\\' {
			flush()

			r, size := utf8.DecodeRuneInString(body[i:])
			sb.WriteRune(r)

			i += size

			continue
		}

		if i+1 >= len(body) {
			return "", fmt.Errorf("%w at offset %d", errUnfinished, i)
		}

		unit, text, size, err := decodeEscape(body[i+1:])
		if err != nil {
			return "", fmt.Errorf("%w at offset %d", err, i)
		}

		if unit >= 0 {
			units = append(units, uint16(unit)) //nolint:gosec // bounded by hexUnitLen digits.
		} else {
			flush()
			sb.WriteString(text)
		}

		i += 1 + size
	}

	flush()

	return sb.String(), nil
}

// decodeEscape decodes the escape after a backslash. It returns a UTF-16 code
// unit for \uXXXX escapes (so surrogate pairs can be joined) or the decoded
// text otherwise, and the number of bytes consumed.
func decodeEscape(s string) (unit int, text string, size int, err error) {
	switch c := s[0]; c {
	case 'n':
		return -1, "\n", 1, nil
	case 't':
		return -1, "\t", 1, nil
	case 'r':
		return -1, "\r", 1, nil
	case 'b':
		return -1, "\b", 1, nil
	case 'f':
		return -1, "\f", 1, nil
	case 'v':
		return -1, "\v", 1, nil
	case '\n':
		return -1, "", 1, nil
	case '\r':
		if len(s) > 1 && s[1] == '\n' {
			return -1, "", 2, nil
		}

		return -1, "", 1, nil
	case 'x':
		v, err := parseHex(s[1:], hexByteLen)
		if err != nil {
			return 0, "", 0, err
		}

		return -1, string(rune(v)), 1 + hexByteLen, nil
	case 'u':
		return decodeUnicodeEscape(s)
	default:
		if c >= '0' && c <= '7' {
			return decodeOctal(s)
		}

		r, n := utf8.DecodeRuneInString(s)
		if r == '\u2028' || r == '\u2029' {
			return -1, "", n, nil
		}

		return -1, string(r), n, nil
	}
}

func decodeUnicodeEscape(s string) (int, string, int, error) {
	if len(s) > 1 && s[1] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, "", 0, errBadEscape
		}

		v, err := strconv.ParseUint(s[2:end], 16, 32)
		if err != nil || v > maxCodePoint {
			return 0, "", 0, errBadEscape
		}

		return -1, string(rune(v)), end + 1, nil
	}

	v, err := parseHex(s[1:], hexUnitLen)
	if err != nil {
		return 0, "", 0, err
	}

	return v, "", 1 + hexUnitLen, nil
}

func decodeOctal(s string) (int, string, int, error) {
	n := 0
	v := 0

	for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
		next := v*8 + int(s[n]-'0')
		if next > maxOctal {
			break
		}

		v = next
		n++
	}

	return -1, string(rune(v)), n, nil
}

func parseHex(s string, digits int) (int, error) {
	if len(s) < digits {
		return 0, errBadEscape
	}

	v, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil {
		return 0, errBadEscape
	}

	return int(v), nil
}

// QuoteString encodes value as a JavaScript string literal delimited by quote.
func QuoteString(value string, quote byte) string {
	var sb strings.Builder

	sb.Grow(len(value) + 2)
	sb.WriteByte(quote)

	for _, r := range value {
		switch {
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\u2028', r == '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		case r < ' ':
			fmt.Fprintf(&sb, `\x%02x`, r)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte(quote)

	return sb.String()
}

// Requote rewrites a quoted literal to use the quote character, keeping every
// escape sequence as written. Escapes of the old quote are dropped and bare
// occurrences of the new quote are escaped, so the decoded value is unchanged.
func Requote(raw string, quote byte) string {
	if len(raw) < 2 || raw[0] == quote {
		return raw
	}

	old := raw[0]
	if old != '\'' && old != '"' {
		return raw
	}

	body := raw[1 : len(raw)-1]

	var sb strings.Builder

	sb.Grow(len(raw) + 2)
	sb.WriteByte(quote)

	for i := 0; i < len(body); i++ {
		c := body[i]

		switch {
		case c == '\\' && i+1 < len(body):
			next := body[i+1]
			if next != old {
				sb.WriteByte('\\')
			}

			sb.WriteByte(next)

			i++
		case c == quote:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}

	sb.WriteByte(quote)

	return sb.String()
}
