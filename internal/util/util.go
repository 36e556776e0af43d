// Package util provides small helpers shared across packages.
package util

import "strings"

// HasPrefixes returns true if the string s has any of the given prefixes.
func HasPrefixes(src string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(src, prefix) {
			return true
		}
	}
	return false
}

// TruncateString truncates the string to have a maximum length of limit runes.
func TruncateString(str string, limit int) (string, bool) {
	runes := []rune(str)
	if len(runes) <= limit {
		return str, false
	}
	return string(runes[:limit]), true
}
