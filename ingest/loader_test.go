package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leaseYAML = `id: lease
title: Commercial Lease
chunks:
  - id: lease-0
    index: 0
    pageNumber: 1
    characterCount: 42
    text: The Lessee shall pay rent monthly.
    embedding: [0.6, 0.8]
  - id: lease-1
    index: 1
    pageNumber: 2
    text: The Lessor shall maintain the roof.
---
id: loan
chunks:
  - text: The Borrower shall repay the loan.
`

func TestDecode_YAMLStream(t *testing.T) {
	docs, err := Decode(strings.NewReader(leaseYAML))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	lease := docs[0]
	assert.Equal(t, "lease", lease.ID)
	assert.Equal(t, "Commercial Lease", lease.Title)
	require.Len(t, lease.Chunks, 2)
	assert.Equal(t, "lease-0", lease.Chunks[0].ID)
	assert.Equal(t, 42, lease.Chunks[0].CharacterCount)
	assert.Equal(t, []float32{0.6, 0.8}, lease.Chunks[0].Embedding)
	assert.Equal(t, 2, lease.Chunks[1].PageNumber)
	assert.Empty(t, lease.Chunks[1].Embedding)

	assert.Equal(t, "loan", docs[1].ID)
	assert.Len(t, docs[1].Chunks, 1)
}

func TestDecode_JSON(t *testing.T) {
	input := `{"id": "nda", "chunks": [{"id": "nda-0", "pageNumber": 3, "text": "Confidential.", "embedding": [1, 0, 0]}]}`

	docs, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "nda", docs[0].ID)
	assert.Equal(t, 3, docs[0].Chunks[0].PageNumber)
	assert.Equal(t, []float32{1, 0, 0}, docs[0].Chunks[0].Embedding)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("id: x\npages: 3\n"))
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	docs, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "docs.yaml")
		require.NoError(t, os.WriteFile(path, []byte(leaseYAML), 0644))

		docs, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "docs.txt")
		require.NoError(t, os.WriteFile(path, []byte(leaseYAML), 0644))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
