package piecetable

import (
	"strings"
	"unicode/utf8"
)

// Bytes that are not valid UTF-8 are stored as runes in the low surrogate
// block U+DC80..U+DCFF. Decoding never yields surrogates, so the mapping
// is reversible and Text returns the exact bytes that went in.
const (
	escapeBase = 0xDC00
	escapeLow  = 0xDC80
	escapeHigh = 0xDCFF
)

// decode splits s into characters. Each invalid byte is one character.
func decode(s string) []rune {
	out := make([]rune, 0, len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			r = escapeBase + rune(s[0])
		}
		out = append(out, r)
		s = s[size:]
	}
	return out
}

func isEscaped(r rune) bool {
	return r >= escapeLow && r <= escapeHigh
}

func writeRunes(sb *strings.Builder, rs []rune) {
	for _, r := range rs {
		if isEscaped(r) {
			sb.WriteByte(byte(r - escapeBase))
			continue
		}
		sb.WriteRune(r)
	}
}
