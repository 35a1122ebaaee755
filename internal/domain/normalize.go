package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NormalizeText brings selected text and stored headwords to one form:
// canonical width (full-width ASCII narrowed, half-width katakana widened),
// NFC, lower case, and single spaces between words. Diacritics, hyphens and
// apostrophes are kept.
func NormalizeText(text string) string {
	text = strings.ToLower(norm.NFC.String(width.Fold.String(text)))
	return strings.Join(strings.Fields(text), " ")
}
