package matching

import (
	"math"

	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/similarity"
)

const (
	// tieEpsilon is the score gap below which two candidates count as tied.
	tieEpsilon = 0.001

	// DefaultEarlyExitWindow is the number of leading source chunks that must
	// produce at least one match before a pass gives up.
	DefaultEarlyExitWindow = 40
)

// Direction identifies one of the two passes of a comparison.
type Direction int

const (
	// DirectionAToB uses document A as source and B as target.
	DirectionAToB Direction = iota
	// DirectionBToA uses document B as source and A as target.
	DirectionBToA
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionAToB:
		return "a_to_b"
	case DirectionBToA:
		return "b_to_a"
	default:
		return "unknown"
	}
}

// PassStats describes the filtering performed by one directional pass.
type PassStats struct {
	// SourceInspected is the number of source chunks scored before the pass ended.
	SourceInspected int `json:"sourceInspected"`
	// CosinePassed counts (source, target) pairs at or above the cosine threshold.
	CosinePassed int `json:"cosinePassed"`
	// JaccardFiltered counts cosine candidates dropped by the lexical filter.
	JaccardFiltered int `json:"jaccardFiltered"`
	// Matches is the number of source chunks that selected a target.
	Matches int `json:"matches"`
	// EarlyExit is set when the pass stopped after an empty leading window.
	EarlyExit bool `json:"earlyExit"`
}

// FilterRate returns the share of cosine candidates removed by the lexical
// filter, in percent.
func (s PassStats) FilterRate() float64 {
	if s.CosinePassed == 0 {
		return 0
	}
	return float64(s.JaccardFiltered) / float64(s.CosinePassed) * 100
}

// passResult holds the outcome of one directional pass. Matches are kept in
// source order with at most one entry per source chunk ID.
type passResult struct {
	matches []core.ChunkMatch
	stats   PassStats
}

// candidate is a target chunk that cleared every filter for one source chunk.
type candidate struct {
	target  *core.Chunk
	score   float64
	jaccard float64
}

// tokenCache lazily computes token sets for one side of a comparison.
// It is local to a single pass.
type tokenCache struct {
	chunks []core.Chunk
	sets   []map[string]struct{}
}

func newTokenCache(chunks []core.Chunk) *tokenCache {
	return &tokenCache{
		chunks: chunks,
		sets:   make([]map[string]struct{}, len(chunks)),
	}
}

func (tc *tokenCache) get(i int) map[string]struct{} {
	if tc.sets[i] == nil {
		tc.sets[i] = similarity.TokenSet(tc.chunks[i].Text)
	}
	return tc.sets[i]
}

// findBestMatches selects, for every source chunk, the best target chunk.
//
// Candidates must score at least opts.PrimaryThreshold. When lexical
// filtering is enabled and both chunks carry text, they must also reach
// opts.JaccardThreshold. Among surviving candidates, considered in target
// order, a higher score wins unless the two scores are within tieEpsilon, in
// which case the candidate strictly closer in page number wins.
//
// If earlyExitWindow > 0 and none of the first min(earlyExitWindow,
// len(source)) source chunks matches, the pass stops there.
func findBestMatches(source, target []core.Chunk, opts core.MatchingOptions, earlyExitWindow int) (*passResult, error) {
	result := &passResult{}
	if len(source) == 0 || len(target) == 0 {
		return result, nil
	}

	lexical := opts.LexicalFilterEnabled()
	targetTokens := newTokenCache(target)

	window := 0
	if earlyExitWindow > 0 {
		window = min(earlyExitWindow, len(source))
	}

	// Index into result.matches by source chunk ID.
	bySource := make(map[string]int)

	for i := range source {
		src := &source[i]
		result.stats.SourceInspected++

		var (
			best      candidate
			found     bool
			srcTokens map[string]struct{}
		)

		for j := range target {
			tgt := &target[j]

			score, err := similarity.Cosine(src.Embedding, tgt.Embedding)
			if err != nil {
				return nil, err
			}
			// Negated so a NaN score is rejected too.
			if !(score >= opts.PrimaryThreshold) {
				continue
			}
			result.stats.CosinePassed++

			c := candidate{target: tgt, score: score}
			if lexical && src.Text != "" && tgt.Text != "" {
				if srcTokens == nil {
					srcTokens = similarity.TokenSet(src.Text)
				}
				c.jaccard = similarity.JaccardSets(srcTokens, targetTokens.get(j))
				if c.jaccard < opts.JaccardThreshold {
					result.stats.JaccardFiltered++
					continue
				}
			}

			if !found {
				best = c
				found = true
				continue
			}
			if preferCandidate(src.PageNumber, best, c) {
				best = c
			}
		}

		if found {
			m := core.ChunkMatch{
				ChunkA:       src.Ref(),
				ChunkB:       best.target.Ref(),
				Score:        best.score,
				JaccardScore: best.jaccard,
			}
			if idx, ok := bySource[src.ID]; ok {
				result.matches[idx] = m
			} else {
				bySource[src.ID] = len(result.matches)
				result.matches = append(result.matches, m)
			}
		}

		if window > 0 && i == window-1 && len(result.matches) == 0 {
			result.stats.EarlyExit = i < len(source)-1
			break
		}
	}

	result.stats.Matches = len(result.matches)
	return result, nil
}

// preferCandidate reports whether next should replace best for a source
// chunk on sourcePage.
func preferCandidate(sourcePage int, best, next candidate) bool {
	if math.Abs(next.score-best.score) < tieEpsilon {
		return pageDistance(sourcePage, next.target.PageNumber) < pageDistance(sourcePage, best.target.PageNumber)
	}
	return next.score > best.score
}

func pageDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
