// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls to ensure consistent behavior.
package normalize

import "strings"

// Role normalizes a role value by trimming whitespace and converting to lowercase.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContentType normalizes a content type key taken from a route parameter.
func ContentType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slug trims a slug. Case is preserved; slug lookups are exact.
func Slug(s string) string {
	return strings.TrimSpace(s)
}

// Status normalizes a status value by trimming whitespace and converting to lowercase.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FAQKey is the duplicate-detection key for a FAQ question:
// leading and trailing whitespace removed, lower-cased.
func FAQKey(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// List splits a comma separated value, trimming each part and dropping empties.
func List(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
