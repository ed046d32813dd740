package intent

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the NFC-normalized, case-folded form of text. Every string that is
// compared against the corpus or the entity term lists goes through Fold first.
func Fold(text string) string {
	// cases.Caser is stateful, so a fresh one is built per call.
	return cases.Fold().String(norm.NFC.String(text))
}

// Tokenize splits text on Unicode word boundaries (UAX #29) and returns the
// folded words. Segments without a letter or digit (spaces, punctuation,
// emoji) are dropped.
func Tokenize(text string) []string {
	folded := Fold(text)
	if strings.TrimSpace(folded) == "" {
		return nil
	}

	var tokens []string
	state := -1
	rest := folded
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if isWordSegment(word) {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func isWordSegment(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
