package main

import (
	"cmp"
	"maps"
	"slices"

	"github.com/poiesic/clausematch/matching"
)

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func sortedPairKeys[V any](m map[matching.PairKey]V) []matching.PairKey {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b matching.PairKey) int {
		return cmp.Or(cmp.Compare(a.SourceID, b.SourceID), cmp.Compare(a.TargetID, b.TargetID))
	})
	return keys
}
