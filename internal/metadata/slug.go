package metadata

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces    = regexp.MustCompile(`[\s\p{Z}]+`)
	reNonWord   = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	reMultiDash = regexp.MustCompile(`-{2,}`)
)

// Slugify turns text into a URL-safe slug. Accents are decomposed and dropped,
// whitespace runs become single hyphens, and anything outside [A-Za-z0-9_-]
// is removed. Slugify(Slugify(s)) == Slugify(s).
func Slugify(text string) string {
	s := stripMarks(text)
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = reSpaces.ReplaceAllString(s, "-")
	s = reNonWord.ReplaceAllString(s, "")
	s = reMultiDash.ReplaceAllString(s, "-")
	return s
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return norm.NFD.String(s)
	}
	return out
}
