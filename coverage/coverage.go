// Package coverage summarizes how much of two documents a match list covers.
//
// Match lists may pair one chunk with several others, so characters are
// counted once per unique chunk ID on each side.
package coverage

import (
	"fmt"
	"slices"

	"github.com/poiesic/clausematch/core"
)

// Summary describes the overlap between two documents.
type Summary struct {
	MatchCount         int      `json:"matchCount"`
	MatchedChunksA     int      `json:"matchedChunksA"`
	MatchedChunksB     int      `json:"matchedChunksB"`
	MatchedCharactersA int      `json:"matchedCharactersA"`
	MatchedCharactersB int      `json:"matchedCharactersB"`
	TotalCharactersA   int      `json:"totalCharactersA"`
	TotalCharactersB   int      `json:"totalCharactersB"`
	CoverageA          float64  `json:"coverageA"`
	CoverageB          float64  `json:"coverageB"`
	MeanScore          float64  `json:"meanScore"`
	MaxScore           float64  `json:"maxScore"`
	PagesA             []string `json:"pagesA"`
	PagesB             []string `json:"pagesB"`
}

// Summarize computes coverage of chunksA and chunksB by matches, which must
// be oriented (chunk from A, chunk from B). Coverage values are fractions in
// [0, 1].
func Summarize(matches []core.ChunkMatch, chunksA, chunksB []core.Chunk) Summary {
	s := Summary{
		MatchCount:       len(matches),
		TotalCharactersA: core.TotalCharacters(chunksA),
		TotalCharactersB: core.TotalCharacters(chunksB),
	}

	sideA := newSide()
	sideB := newSide()
	var scoreSum float64
	for i := range matches {
		m := &matches[i]
		sideA.add(m.ChunkA)
		sideB.add(m.ChunkB)
		scoreSum += m.Score
		s.MaxScore = max(s.MaxScore, m.Score)
	}
	if len(matches) > 0 {
		s.MeanScore = scoreSum / float64(len(matches))
	}

	s.MatchedChunksA, s.MatchedCharactersA = len(sideA.seen), sideA.characters
	s.MatchedChunksB, s.MatchedCharactersB = len(sideB.seen), sideB.characters
	s.CoverageA = fraction(s.MatchedCharactersA, s.TotalCharactersA)
	s.CoverageB = fraction(s.MatchedCharactersB, s.TotalCharactersB)
	s.PagesA = PageRanges(sideA.pages)
	s.PagesB = PageRanges(sideB.pages)
	return s
}

type side struct {
	seen       map[string]struct{}
	characters int
	pages      []int
}

func newSide() *side {
	return &side{seen: make(map[string]struct{})}
}

func (s *side) add(ref core.ChunkRef) {
	if _, ok := s.seen[ref.ID]; ok {
		return
	}
	s.seen[ref.ID] = struct{}{}
	s.characters += ref.CharacterCount
	s.pages = append(s.pages, ref.PageNumber)
}

func fraction(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(float64(part)/float64(total), 1)
}

// PageRanges collapses page numbers into sorted ranges such as "3-5".
// Duplicates are ignored.
func PageRanges(pages []int) []string {
	if len(pages) == 0 {
		return nil
	}

	sorted := slices.Clone(pages)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var ranges []string
	start, prev := sorted[0], sorted[0]
	flush := func() {
		if start == prev {
			ranges = append(ranges, fmt.Sprintf("%d", start))
		} else {
			ranges = append(ranges, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, p := range sorted[1:] {
		if p == prev+1 {
			prev = p
			continue
		}
		flush()
		start, prev = p, p
	}
	flush()
	return ranges
}
