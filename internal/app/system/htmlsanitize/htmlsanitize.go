// Package htmlsanitize provides HTML sanitization for CMS and admin-authored
// rich text, plus rendering of the inline <blue> highlight markup used in
// headings. It uses bluemonday to strip potentially dangerous HTML while
// preserving safe formatting.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy for sanitizing rich text.
	policy     *bluemonday.Policy
	policyOnce sync.Once

	// strict removes every tag; used for plain-text fields.
	strict     *bluemonday.Policy
	strictOnce sync.Once
)

// BlueClass is the CSS class applied to <blue> highlighted text.
const BlueClass = "text-blue"

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// Start with UGC (User Generated Content) policy as base
		policy = bluemonday.UGCPolicy()

		// Allow tables (privacy policy sections, pricing grids)
		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")

		// Allow common text formatting
		policy.AllowElements("u", "s", "sub", "sup", "mark")

		// Highlight spans produced by BlueMarkup survive a second pass
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("span")
	})
	return policy
}

func getStrict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Sanitize cleans HTML input, removing potentially dangerous elements and attributes.
// It preserves safe formatting like bold, italic, lists, links, and tables.
// Returns the sanitized HTML string.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return getPolicy().Sanitize(s)
}

// StripTags removes all markup, leaving text content only.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return getStrict().Sanitize(s)
}

const (
	blueOpen  = "<blue>"
	blueClose = "</blue>"
	spanOpen  = `<span class="` + BlueClass + `">`
	spanClose = "</span>"
)

// BlueMarkup renders text containing <blue>...</blue> highlight markers as HTML.
// Everything outside the markers is HTML-escaped. Tags match case-insensitively,
// a stray closing tag is dropped, and an unclosed opening tag is closed at the end.
// Nesting is not supported; a second <blue> inside an open one is ignored.
func BlueMarkup(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) + 32)
	open := false
	i := 0
	for i < len(s) {
		switch {
		case hasTagAt(s, i, blueOpen):
			if !open {
				b.WriteString(spanOpen)
				open = true
			}
			i += len(blueOpen)
		case hasTagAt(s, i, blueClose):
			if open {
				b.WriteString(spanClose)
				open = false
			}
			i += len(blueClose)
		default:
			next := nextTag(s, i+1)
			b.WriteString(html.EscapeString(s[i:next]))
			i = next
		}
	}
	if open {
		b.WriteString(spanClose)
	}
	return b.String()
}

// hasTagAt reports whether s holds tag at byte offset i, ignoring ASCII case.
func hasTagAt(s string, i int, tag string) bool {
	return len(s)-i >= len(tag) && strings.EqualFold(s[i:i+len(tag)], tag)
}

// nextTag returns the index of the next <blue> or </blue> marker at or after
// from, or len(s) when there is none.
func nextTag(s string, from int) int {
	for j := from; j < len(s); j++ {
		if s[j] != '<' {
			continue
		}
		if hasTagAt(s, j, blueOpen) || hasTagAt(s, j, blueClose) {
			return j
		}
	}
	return len(s)
}

// StripBlue removes <blue> markers, leaving the plain heading text.
// Used where markup cannot be rendered, such as page titles.
func StripBlue(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(StripTags(BlueMarkup(s)))
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
// This can be used to handle legacy plain-text content.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	// Valid HTML tags require both characters, so if either is missing, treat as plain text
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML converts plain text to minimal HTML by:
// - Escaping HTML entities
// - Converting newlines to <br> tags
// - Wrapping in a <p> tag
func PlainTextToHTML(text string) string {
	if text == "" {
		return ""
	}
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareRichText takes content (which may be plain text or HTML) and
// returns sanitized HTML ready for rendering.
// If the content appears to be plain text, it's converted to HTML first.
func PrepareRichText(content string) string {
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		return PlainTextToHTML(content)
	}
	return Sanitize(content)
}
