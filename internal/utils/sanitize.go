package utils

import (
	"regexp"
	"strings"
)

// htmlReplacer escapes characters that could break out of an HTML context.
// & must be first so already-escaped entities are not double-mangled on
// the way in.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeHTML escapes user-supplied free text before it is stored.
func SanitizeHTML(input string) string {
	return htmlReplacer.Replace(input)
}

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneRe = regexp.MustCompile(`^[0-9\-\+\s]{8,20}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidPhone reports whether s looks like a phone number (digits, spaces,
// + and -, 8 to 20 characters).
func ValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// CountWords counts whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
