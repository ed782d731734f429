package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle lowercases, folds diacritics, drops punctuation, and
// collapses whitespace so "Amélie!" and "amelie" compare equal.
func NormalizeTitle(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	folded := foldDiacritics(strings.ToLower(input))
	folded = strings.ReplaceAll(folded, "&", " and ")

	var builder strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			builder.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}

func foldDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}

func words(input string) []string {
	return strings.Fields(NormalizeTitle(input))
}
