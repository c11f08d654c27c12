package similarity

import (
	"math"
	"testing"

	"github.com/poiesic/clausematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		u, v     []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			u:        []float32{0.6, 0.8},
			v:        []float32{0.6, 0.8},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			u:        []float32{1, 0},
			v:        []float32{0, 1},
			expected: 0,
		},
		{
			name:     "opposite vectors",
			u:        []float32{1, 0, 0},
			v:        []float32{-1, 0, 0},
			expected: -1,
		},
		{
			name:     "magnitude does not matter",
			u:        []float32{3, 4},
			v:        []float32{6, 8},
			expected: 1.0,
		},
		{
			name:     "nine tenths",
			u:        []float32{1, 0, 0, 0},
			v:        []float32{9, 3, 3, 1},
			expected: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Cosine(tt.u, tt.v)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}
}

func TestCosine_ExactThresholdValue(t *testing.T) {
	// 9/10 is computed exactly, so it compares equal to the 0.90 literal.
	score, err := Cosine([]float32{1, 0, 0, 0}, []float32{9, 3, 3, 1})
	require.NoError(t, err)
	assert.True(t, score >= 0.90)
}

func TestCosine_ZeroMagnitude(t *testing.T) {
	score, err := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = Cosine([]float32{1, 2, 3}, []float32{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 0}, []float32{1, 0, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestCosine_StaysInRange(t *testing.T) {
	v := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}
	score, err := Cosine(v, v)
	require.NoError(t, err)
	assert.LessOrEqual(t, score, 1.0)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []float32
		expected []float32
	}{
		{
			name:     "unit vector remains unchanged",
			input:    []float32{1.0, 0.0, 0.0},
			expected: []float32{1.0, 0.0, 0.0},
		},
		{
			name:     "scale non-unit vector",
			input:    []float32{3.0, 4.0},
			expected: []float32{0.6, 0.8},
		},
		{
			name:     "negative values",
			input:    []float32{-1.0, 1.0},
			expected: []float32{-1.0 / float32(math.Sqrt(2)), 1.0 / float32(math.Sqrt(2))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			require.Equal(t, len(tt.expected), len(result), "vector length mismatch")

			for i := range result {
				assert.InDelta(t, tt.expected[i], result[i], 1e-6, "element %d", i)
			}
		})
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	input := []float32{0.0, 0.0, 0.0}
	result := Normalize(input)
	assert.Equal(t, []float32{0, 0, 0}, result)
}

func TestNormalize_DoesNotModifyInput(t *testing.T) {
	input := []float32{3.0, 4.0}
	_ = Normalize(input)
	assert.Equal(t, []float32{3.0, 4.0}, input)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}
