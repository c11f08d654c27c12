package similarity

import (
	"fmt"
	"math"
)

// Cosine returns dot(u,v) / (|u|·|v|), accumulated in float64.
// The result is in [-1, 1]. If either vector has zero magnitude the result
// is 0. Vectors of different lengths yield ErrDimensionMismatch.
func Cosine(u, v []float32) (float64, error) {
	if len(u) != len(v) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(u), len(v))
	}

	var dot, normU, normV float64
	for i := range u {
		a := float64(u[i])
		b := float64(v[i])
		dot += a * b
		normU += a * a
		normV += b * b
	}

	if normU == 0 || normV == 0 {
		return 0, nil
	}

	score := dot / (math.Sqrt(normU) * math.Sqrt(normV))

	// Rounding can push parallel vectors a hair past the bounds.
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score, nil
}

// Normalize returns a unit-length copy of v.
// If v is the zero vector, a zero vector of the same length is returned.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var magnitude float64
	for _, val := range v {
		magnitude += float64(val) * float64(val)
	}
	magnitude = math.Sqrt(magnitude)

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}

	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}
