package util

import "strings"

// Trunc truncates the input string to a specific length.
// It is UTF8-safe, but does not care for HTML.
func Trunc(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	var runes = 0
	for i := range s {
		if runes == maxRunes {
			return strings.TrimSpace(s[:i]) + "…"
		}
		runes++
	}
	return s
}
