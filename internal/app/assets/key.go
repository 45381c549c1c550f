package assets

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransform decomposes compatibility equivalents and drops combining
// marks, so "Poyagé" and "Poyage" land on the same key.
var foldTransform = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

var apostropheStripper = strings.NewReplacer(
	"'", "",
	"’", "", // right single quotation mark
	"‘", "", // left single quotation mark
	"`", "",
	"´", "", // acute accent used as apostrophe
)

// NormalizeKey folds free-form text to a matching key. Richer than
// dedupe.Normalize: destination names and filenames carry apostrophes and
// accented characters ("Lovers' Leap") that must collapse to the same key
// as their plain-ASCII form. Missing input yields the empty key.
func NormalizeKey(text string) string {
	folded, _, err := transform.String(foldTransform, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(apostropheStripper.Replace(folded))

	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nameTokens lower-cases the raw name and splits on runs of
// non-alphanumeric characters, discarding empties.
func nameTokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
