package util

import (
	"strings"
	"unicode"
)

// SafeFileName converts a configlet or container name into a string that is
// safe to use as a file name. It lowercases the name, replaces spaces,
// underscores and dots with hyphens, drops every other non-alphanumeric
// character, collapses consecutive hyphens and trims leading and trailing
// ones.
func SafeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else if r == ' ' || r == '_' || r == '-' || r == '.' {
			b.WriteRune('-')
		}
	}

	s := b.String()
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
