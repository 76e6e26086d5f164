// Package util provides shared utility functions used across the codebase.
package util

import (
	"strings"
	"unicode"
)

// TruncateString truncates a string to maxLen runes, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// Slugify converts a title into a lowercase, hyphen-separated identifier
// suitable for file names. Runs of non-alphanumeric characters collapse into
// a single hyphen; leading and trailing hyphens are stripped.
func Slugify(s string) string {
	var sb strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
