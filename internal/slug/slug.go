// Package slug derives URL- and id-safe tokens from display names.
// Category ids are slugs of the category name, so the transform must stay
// deterministic: the same name always yields the same id.
package slug

import (
	"regexp"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	// nonWord strips everything that is not a word character or hyphen
	nonWord = regexp.MustCompile(`[^\w-]+`)
)

// Make converts a display name into a lowercase hyphenated token.
// Example: "Tech News!" -> "tech-news".
func Make(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = whitespace.ReplaceAllString(out, "-")
	out = nonWord.ReplaceAllString(out, "")
	return out
}
