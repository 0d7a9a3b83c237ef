/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transformers carry state, so a new chain is built per call.
func foldChain() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Lower(language.Und),
		norm.NFC,
	)
}

// Normalize lowercases text, strips accents and collapses runs of
// whitespace into single spaces.
func Normalize(text string) string {
	folded, _, err := transform.String(foldChain(), text)
	if err != nil {
		folded = strings.ToLower(text)
	}

	return strings.Join(strings.Fields(folded), " ")
}

// squash normalizes text and drops all whitespace, for substring matching.
func squash(text string) string {
	return strings.ReplaceAll(Normalize(text), " ", "")
}
