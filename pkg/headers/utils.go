package headers

import (
	"strings"
	"unicode/utf8"
)

func isASCIIAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// isASCIIAlphanumericPlus reports whether c can appear in a header token
// without quoting or escaping.
func isASCIIAlphanumericPlus(c byte) bool {
	return isASCIIAlphanumeric(c) || c == '-' || c == '_' || c == '.'
}

func isASCIIPrintable(c byte) bool {
	return c >= ' ' && c <= '~'
}

func allBytes(s string, pred func(byte) bool) bool {
	for i := range len(s) {
		if !pred(s[i]) {
			return false
		}
	}

	return true
}

// escapeQuoted backslash-escapes the characters that cannot appear
// verbatim inside a quoted-string. s must be ASCII.
func escapeQuoted(s string) string {
	if !strings.ContainsAny(s, `\"`) {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s) + 2)

	for i := range len(s) {
		switch c := s[i]; c {
		case '\\', '"':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// truncateToRuneBoundary returns the longest prefix of s not longer than
// n bytes that does not end in the middle of a UTF-8 sequence.
func truncateToRuneBoundary(s string, n int) string {
	if n > len(s) {
		panic("truncateToRuneBoundary: n is out of bounds")
	}

	for n > 0 && n < len(s) && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
