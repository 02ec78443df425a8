package reconcile

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// drop accents and anything else outside ASCII after NFKD decomposition
	asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	}))

	nonWord = regexp.MustCompile(`[^\w\s-]`)
	runs    = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a display name into the slug form the target system
// requires on named records: transliterated to ASCII, lowercased, special
// characters stripped, whitespace and hyphen runs collapsed to single
// hyphens.
//
//	Slugify("Hello World!") == "hello-world"
//	Slugify("Bürogebäude 3") == "burogebaude-3"
func Slugify(value string) string {
	out, _, err := transform.String(transform.Chain(norm.NFKD, asciiOnly), value)
	if err != nil {
		out = value
	}
	out = nonWord.ReplaceAllString(strings.ToLower(out), "")
	out = runs.ReplaceAllString(out, "-")
	return strings.Trim(out, "-_")
}
