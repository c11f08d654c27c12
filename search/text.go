package search

import "github.com/poiesic/clausematch/similarity"

// Stop words to filter out when checking for verbatim matches
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "at": true, "this": true, "but": true, "by": true, "from": true,
	"shall": true, "any": true, "such": true, "or": true,
}

// significantWords returns the case-folded tokens of text without stop words.
func significantWords(text string) []string {
	tokens := similarity.Tokenize(text)
	filtered := tokens[:0]
	for _, token := range tokens {
		if !stopWords[token] {
			filtered = append(filtered, token)
		}
	}
	return filtered
}

// containsAllQueryWords checks if all significant query words appear in the text.
func containsAllQueryWords(text, query string) bool {
	queryWords := significantWords(query)
	if len(queryWords) == 0 {
		return false
	}

	textWords := similarity.TokenSet(text)
	for _, word := range queryWords {
		if _, ok := textWords[word]; !ok {
			return false
		}
	}
	return true
}
