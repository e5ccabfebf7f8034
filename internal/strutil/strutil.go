// Package strutil provides additional string manipulation functions.
package strutil

import "strings"

// Repeat returns a string consisting of count copies of s.
// Unlike strings.Repeat, it returns an empty string if count is negative.
func Repeat(s string, count int) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(s, count)
}

// SanitizeName converts a stack name into a string that is safe to use as a
// directory or file name. Path separators, whitespace and shell-special
// characters are replaced with '-', runs of '-' are collapsed, and the result
// is trimmed. An empty result falls back to "unnamed".
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	s := b.String()
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-.")
	if s == "" {
		return "unnamed"
	}
	return s
}
