package storage

import (
	"testing"
	"time"

	"github.com/poiesic/clausematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalChunk(t *testing.T) {
	tests := []struct {
		name  string
		chunk *core.Chunk
	}{
		{
			name: "minimal chunk",
			chunk: &core.Chunk{
				ID:         "c0",
				PageNumber: 1,
				Embedding:  []float32{1},
			},
		},
		{
			name: "chunk with text",
			chunk: &core.Chunk{
				ID:             "doc/12",
				Index:          12,
				PageNumber:     4,
				CharacterCount: 1834,
				Text:           "The Lessee shall keep the Premises in good repair.",
				Embedding:      []float32{0.1, -0.2, 0.3, 0.927},
			},
		},
		{
			name: "unicode text",
			chunk: &core.Chunk{
				ID:             "ü-7",
				Index:          7,
				PageNumber:     300,
				CharacterCount: 11,
				Text:           "Überweisung",
				Embedding:      []float32{0.6, 0.8},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalChunk(tt.chunk)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalChunk(data)
			require.NoError(t, err)
			assert.Equal(t, tt.chunk, decoded)
		})
	}
}

func TestUnmarshalChunk_Invalid(t *testing.T) {
	valid := MarshalChunk(&core.Chunk{ID: "c0", PageNumber: 1, Embedding: []float32{1, 0}})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated vector", valid[:len(valid)-2]},
		{"trailing bytes", append(append([]byte{}, valid...), 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalChunk(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalDocumentInfo(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	info := &core.DocumentInfo{
		ID:              "lease-2024",
		Title:           "Commercial Lease",
		ChunkCount:      42,
		TotalCharacters: 73500,
		Dimensions:      1536,
		InsertedAt:      now.Add(-time.Hour),
		UpdatedAt:       now,
	}

	data := MarshalDocumentInfo(info)
	decoded, err := UnmarshalDocumentInfo(data)
	require.NoError(t, err)
	assert.Equal(t, info, decoded)
}

func TestUnmarshalDocumentInfo_Invalid(t *testing.T) {
	_, err := UnmarshalDocumentInfo([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
