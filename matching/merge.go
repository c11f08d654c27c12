package matching

import (
	"cmp"
	"slices"

	"github.com/poiesic/clausematch/core"
)

// pairKey identifies a (chunk from A, chunk from B) pairing.
type pairKey struct {
	a, b string
}

// mergeBidirectionalMatches combines the A→B pass with the B→A pass.
//
// B→A matches are swapped so every match reads (chunk from A, chunk from B).
// The union is not constrained to 1:1: a chunk may appear in several pairs
// when the two passes disagree. Only exact duplicate pairs are removed,
// keeping the highest-scoring occurrence. The sort is stable, so equal
// scores keep pass order (A→B first, then B→A, each in source order).
func mergeBidirectionalMatches(aToB, bToA []core.ChunkMatch) []core.ChunkMatch {
	all := make([]core.ChunkMatch, 0, len(aToB)+len(bToA))
	all = append(all, aToB...)
	for _, m := range bToA {
		all = append(all, m.Swapped())
	}

	return dedupePairs(all)
}

// dedupePairs sorts candidates by score descending and keeps the first
// occurrence of each (ChunkA.ID, ChunkB.ID) pair.
func dedupePairs(candidates []core.ChunkMatch) []core.ChunkMatch {
	slices.SortStableFunc(candidates, func(x, y core.ChunkMatch) int {
		return cmp.Compare(y.Score, x.Score)
	})

	seen := make(map[pairKey]struct{}, len(candidates))
	result := make([]core.ChunkMatch, 0, len(candidates))
	for _, m := range candidates {
		key := pairKey{a: m.ChunkA.ID, b: m.ChunkB.ID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, m)
	}
	return result
}
