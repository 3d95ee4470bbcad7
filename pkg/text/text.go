package text

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
	nonSlugRunes = regexp.MustCompile(`[^a-z0-9]+`)
	stripAccents = runes.Remove(runes.In(unicode.Mn))
)

// StripTags removes markup and collapses whitespace, for plain-text summaries of body_html.
func StripTags(input string) string {
	plain := tagPattern.ReplaceAllString(input, " ")
	plain = html.UnescapeString(plain)
	return strings.TrimSpace(spacePattern.ReplaceAllString(plain, " "))
}

// ReduceToLength keeps whole words up to length bytes.
func ReduceToLength(input string, length int) string {
	var builder strings.Builder
	totalLength := 0

	for i, word := range strings.Fields(input) {
		if totalLength+len(word)+min(i, 1) > length {
			break
		}
		if i > 0 {
			builder.WriteString(" ")
			totalLength++
		}
		builder.WriteString(word)
		totalLength += len(word)
	}
	return builder.String()
}

// Slugify turns a title into a storefront handle: accents dropped,
// lower case, runs of anything else folded into single dashes.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, stripAccents, norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	slug := nonSlugRunes.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
