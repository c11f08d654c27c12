package matching

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/poiesic/clausematch/core"
)

// axis returns the unit vector along dimension i of a dims-dimensional space.
func axis(dims, i int) []float32 {
	v := make([]float32, dims)
	v[i] = 1
	return v
}

// atCosine returns a 4-dimensional unit vector whose cosine with axis(4, 0)
// is approximately c.
func atCosine(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c)), 0, 0}
}

func chunk(id string, page, chars int, embedding []float32) core.Chunk {
	return core.Chunk{
		ID:             id,
		PageNumber:     page,
		CharacterCount: chars,
		Embedding:      embedding,
	}
}

func textChunk(id string, page, chars int, text string, embedding []float32) core.Chunk {
	c := chunk(id, page, chars, embedding)
	c.Text = text
	return c
}

// indexed assigns sequential indexes to chunks.
func indexed(chunks ...core.Chunk) []core.Chunk {
	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}

// randomUnit returns a random unit vector.
func randomUnit(rng *rand.Rand, dims int) []float32 {
	v := make([]float32, dims)
	var norm float64
	for i := range v {
		x := rng.NormFloat64()
		v[i] = float32(x)
		norm += x * x
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// perturb returns a unit vector close to v.
func perturb(rng *rand.Rand, v []float32, amount float64) []float32 {
	out := make([]float32, len(v))
	var norm float64
	for i := range v {
		x := float64(v[i]) + rng.NormFloat64()*amount
		out[i] = float32(x)
		norm += x * x
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] = float32(float64(out[i]) / norm)
	}
	return out
}

// reusedPair builds two documents of n chunks where document B is a lightly
// edited copy of document A. Every third chunk of B has reworded text.
func reusedPair(seed int64, n, dims int) (*core.Document, *core.Document) {
	rng := rand.New(rand.NewSource(seed))
	a := &core.Document{ID: "doc-a"}
	b := &core.Document{ID: "doc-b"}
	for i := 0; i < n; i++ {
		base := randomUnit(rng, dims)
		text := fmt.Sprintf("section %d the borrower shall repay the loan in full on the maturity date", i)
		a.Chunks = append(a.Chunks, core.Chunk{
			ID:             fmt.Sprintf("a%d", i),
			Index:          i,
			PageNumber:     i/3 + 1,
			CharacterCount: 500,
			Text:           text,
			Embedding:      base,
		})
		bText := text
		if i%3 == 0 {
			bText = fmt.Sprintf("part %d repayment of all amounts owed is due when the facility terminates", i)
		}
		b.Chunks = append(b.Chunks, core.Chunk{
			ID:             fmt.Sprintf("b%d", i),
			Index:          i,
			PageNumber:     i/3 + 1,
			CharacterCount: 480,
			Text:           bText,
			Embedding:      perturb(rng, base, 0.02),
		})
	}
	return a, b
}
