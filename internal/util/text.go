package util

import (
	"strings"
	"unicode"
)

// SanitizeText drops invalid UTF-8 sequences, NUL bytes and other control
// characters from extracted document text. Tab and newline are kept, other
// whitespace controls such as carriage return become a space.
func SanitizeText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			if unicode.IsSpace(r) {
				return ' '
			}
			return -1
		}
		return r
	}, sanitized)
}

// Truncate cuts s to at most maxRunes runes. A non-positive limit returns s unchanged.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := 0
	for i := range s {
		if runes == maxRunes {
			return s[:i]
		}
		runes++
	}
	return s
}
