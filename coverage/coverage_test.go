package coverage

import (
	"testing"

	"github.com/poiesic/clausematch/core"
	"github.com/stretchr/testify/assert"
)

func ref(id string, page, chars int) core.ChunkRef {
	return core.ChunkRef{ID: id, PageNumber: page, CharacterCount: chars}
}

func chunks(refs ...core.ChunkRef) []core.Chunk {
	out := make([]core.Chunk, len(refs))
	for i, r := range refs {
		out[i] = core.Chunk{ID: r.ID, Index: i, PageNumber: r.PageNumber, CharacterCount: r.CharacterCount}
	}
	return out
}

func TestSummarize(t *testing.T) {
	a0, a1, a2 := ref("a0", 1, 400), ref("a1", 2, 600), ref("a2", 5, 1000)
	b0, b1 := ref("b0", 3, 500), ref("b1", 4, 500)

	matches := []core.ChunkMatch{
		{ChunkA: a0, ChunkB: b0, Score: 0.98},
		{ChunkA: a1, ChunkB: b0, Score: 0.94},
		{ChunkA: a1, ChunkB: b1, Score: 0.92},
	}

	s := Summarize(matches, chunks(a0, a1, a2), chunks(b0, b1))

	assert.Equal(t, 3, s.MatchCount)
	assert.Equal(t, 2, s.MatchedChunksA)
	assert.Equal(t, 1000, s.MatchedCharactersA, "a1 counts once")
	assert.Equal(t, 2000, s.TotalCharactersA)
	assert.InDelta(t, 0.5, s.CoverageA, 1e-12)

	assert.Equal(t, 2, s.MatchedChunksB)
	assert.Equal(t, 1000, s.MatchedCharactersB, "b0 counts once")
	assert.InDelta(t, 1.0, s.CoverageB, 1e-12)

	assert.InDelta(t, (0.98+0.94+0.92)/3, s.MeanScore, 1e-12)
	assert.Equal(t, 0.98, s.MaxScore)
	assert.Equal(t, []string{"1-2"}, s.PagesA)
	assert.Equal(t, []string{"3-4"}, s.PagesB)
}

func TestSummarize_NoMatches(t *testing.T) {
	s := Summarize(nil, chunks(ref("a0", 1, 100)), nil)

	assert.Zero(t, s.MatchCount)
	assert.Zero(t, s.CoverageA)
	assert.Zero(t, s.CoverageB)
	assert.Zero(t, s.MeanScore)
	assert.Equal(t, 100, s.TotalCharactersA)
	assert.Nil(t, s.PagesA)
}

func TestPageRanges(t *testing.T) {
	tests := []struct {
		name     string
		pages    []int
		expected []string
	}{
		{"empty", nil, nil},
		{"single", []int{7}, []string{"7"}},
		{"consecutive", []int{3, 4, 5}, []string{"3-5"}},
		{"unsorted with duplicates", []int{9, 3, 4, 3, 1}, []string{"1", "3-4", "9"}},
		{"mixed", []int{1, 2, 4, 6, 7, 8, 10}, []string{"1-2", "4", "6-8", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageRanges(tt.pages))
		})
	}
}
