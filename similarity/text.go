package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Tokenize splits text into case-folded word tokens. Letters and digits form
// tokens; every other rune (whitespace, punctuation, symbols) separates them.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	folded := cases.Fold().String(text)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the distinct tokens of text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the token sets of a and b.
// Returns 0 if both token sets are empty.
func Jaccard(a, b string) float64 {
	return JaccardSets(TokenSet(a), TokenSet(b))
}

// JaccardSets computes the Jaccard index of two precomputed token sets.
func JaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	// Iterate the smaller set.
	if len(a) > len(b) {
		a, b = b, a
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
