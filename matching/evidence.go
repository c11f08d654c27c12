package matching

import "github.com/poiesic/clausematch/core"

const (
	// MinEvidenceCharacters is the absolute floor of matched characters.
	MinEvidenceCharacters = 1600

	// MinEvidencePercent is the share of the smaller document that must match.
	MinEvidencePercent = 5
)

// Evidence summarizes the character accounting behind a verdict.
type Evidence struct {
	TotalCharactersA   int  `json:"totalCharactersA"`
	TotalCharactersB   int  `json:"totalCharactersB"`
	MatchedCharactersA int  `json:"matchedCharactersA"`
	MatchedCharactersB int  `json:"matchedCharactersB"`
	MatchedCharacters  int  `json:"matchedCharacters"`
	RequiredCharacters int  `json:"requiredCharacters"`
	Sufficient         bool `json:"sufficient"`
}

// RequiredCharacters returns max(1600, ceil(0.05 * min(totalA, totalB))).
func RequiredCharacters(totalA, totalB int) int {
	smaller := max(min(totalA, totalB), 0)
	// ceil(smaller * 5 / 100) in integer arithmetic.
	fractional := (smaller*MinEvidencePercent + 99) / 100
	return max(MinEvidenceCharacters, fractional)
}

// HasSufficientEvidence reports whether matched characters clear both the
// absolute floor and the fraction of the smaller document.
func HasSufficientEvidence(matched, totalA, totalB int) bool {
	return matched >= RequiredCharacters(totalA, totalB)
}

// evaluateEvidence computes the evidence for a deduplicated match list.
// Matched characters are the smaller of the two sides' sums so asymmetric
// many-to-one matches cannot overstate coverage.
func evaluateEvidence(matches []core.ChunkMatch, totalA, totalB int) Evidence {
	e := Evidence{
		TotalCharactersA: totalA,
		TotalCharactersB: totalB,
	}
	for i := range matches {
		e.MatchedCharactersA += matches[i].ChunkA.CharacterCount
		e.MatchedCharactersB += matches[i].ChunkB.CharacterCount
	}
	e.MatchedCharacters = min(e.MatchedCharactersA, e.MatchedCharactersB)
	e.RequiredCharacters = RequiredCharacters(totalA, totalB)
	e.Sufficient = e.MatchedCharacters >= e.RequiredCharacters
	return e
}
