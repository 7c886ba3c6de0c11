package utils

import (
	"strings"
	"unicode/utf8"
)

// MaskString hides all but the tail of a value so it can be logged,
// e.g. "secret" -> "****ret".
func MaskString(value string) string {
	runes := []rune(value)
	keep := 3
	switch n := len(runes); {
	case n < 2:
		keep = n
	case n < 5:
		keep = 2
	}
	return "****" + string(runes[len(runes)-keep:])
}

// NormalizeSpace trims s and collapses inner whitespace runs, the way a
// browser renders text nodes.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most n runes for log output.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
