// Package slug converts free text into URL-safe, idempotent slugs used
// for heading anchors and site-export paths.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	dashLike      = strings.NewReplacer("–", "-", "—", "-", "−", "-")
	whitespaceRun = regexp.MustCompile(`\s+`)
	dashRun       = regexp.MustCompile(`-+`)
)

// Slugify lowercases text, folds Unicode diacritics (NFKD, dropping
// combining marks), strips punctuation other than whitespace and
// hyphens, and collapses whitespace/hyphen runs into single hyphens.
// Calling Slugify on its own output is a no-op.
func Slugify(text string) string {
	text = strings.ToLower(text)
	text = dashLike.Replace(text)
	text = stripCombining(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-', unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = whitespaceRun.ReplaceAllString(text, "-")
	text = dashRun.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// stripCombining applies NFKD decomposition and drops the resulting
// combining marks (Unicode category Mn), e.g. turning "é" into "e".
func stripCombining(s string) string {
	out, _, err := transform.String(norm.NFKD, s)
	if err != nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
