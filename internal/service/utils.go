package service

import (
	"strings"
	"unicode/utf8"
)

// cleanText trims user supplied text and drops invalid UTF-8, which
// PostgreSQL rejects in text columns.
func cleanText(s string) string {
	return sanitizeUTF8(strings.TrimSpace(s))
}

func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}
