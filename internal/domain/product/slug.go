package product

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives the URL-safe identifier of a product title: lowercase, accents
// stripped, every run of characters outside [a-z0-9] collapsed to a single hyphen,
// no leading or trailing hyphen.
//
// Titles that differ only in punctuation or accents ("Zelda: BotW" and "Zelda BotW")
// collapse to the same slug. Catalog titles are expected to stay distinct after that.
func Slugify(title string) string {
	lowered := strings.ToLower(title)

	// transform.Chain keeps state, so a fresh chain is built for every call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	plain, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		plain = lowered
	}

	var b strings.Builder
	b.Grow(len(plain))
	gap := false
	for _, r := range plain {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}
