package helpers

import "strings"

// HasWildcard reports whether pattern uses glob syntax.
func HasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

// WildcardPrefix returns the literal part of pattern before its first
// wildcard.
func WildcardPrefix(pattern string) string {
	idx := strings.IndexAny(pattern, "*?[]{}")
	if idx == -1 {
		return pattern
	}
	return pattern[:idx]
}
