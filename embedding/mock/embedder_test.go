package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "governing law")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "governing law")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "termination")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimensions)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 3, m.CallCount())
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	v := DeterministicVector("indemnification", 16)
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder_EmbedTexts(t *testing.T) {
	m := NewMockEmbedder()
	m.Dimensions = 8

	vectors, err := m.EmbedTexts(context.Background(), []string{"a", "b", "a"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Len(t, vectors[0], 8)
	assert.Equal(t, vectors[0], vectors[2])
	assert.Equal(t, 1, m.CallCount())
}

func TestMockEmbedder_InjectedBehavior(t *testing.T) {
	m := NewMockEmbedder()
	boom := errors.New("service unavailable")
	m.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, boom
	}

	_, err := m.EmbedTexts(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)

	m.Reset()
	assert.Zero(t, m.CallCount())
	_, err = m.EmbedTexts(context.Background(), []string{"x"})
	assert.NoError(t, err)
}

func TestMockEmbedder_CanceledContext(t *testing.T) {
	m := NewMockEmbedder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.EmbedText(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	assert.Same(t, p.GetMockEmbedder(), p.Embedder())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
}
