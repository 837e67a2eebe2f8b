package organization

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify converts a display name into a URL-safe slug: lower-case,
// non-alphanumerics become separators, separators collapse to a single
// dash. "Test & Co." becomes "test-co".
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SlugWithSuffix appends an incrementing numeric suffix used to resolve
// slug collisions: ("test-co", 1) -> "test-co-1".
func SlugWithSuffix(slug string, n int) string {
	return fmt.Sprintf("%s-%d", slug, n)
}
