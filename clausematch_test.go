package clausematch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/embedding/mock"
	"github.com/poiesic/clausematch/matching"
	"github.com/poiesic/clausematch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase("", WithInMemory(), WithProvider(mock.NewMockProvider()),
		WithMatcherOptions(matching.WithPoolSize(2)))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func axis(i int) []float32 {
	v := make([]float32, 4)
	v[i] = 1
	return v
}

// seedDocuments stores "master", a "copy" sharing its first clause, and an
// unrelated "other".
func seedDocuments(t *testing.T, db *Database) {
	t.Helper()
	shared := strings.Repeat("the licensee shall indemnify the licensor ", 40)[:1600]

	importer, err := db.NewImporter()
	require.NoError(t, err)
	defer importer.Release()

	_, err = importer.Import(context.Background(),
		&core.Document{ID: "master", Chunks: []core.Chunk{
			{ID: "m0", Index: 0, Text: shared, Embedding: axis(0)},
			{ID: "m1", Index: 1, Text: strings.Repeat("governing law ", 58)[:800], Embedding: axis(1)},
		}},
		&core.Document{ID: "copy", Chunks: []core.Chunk{
			{ID: "c0", Index: 0, Text: shared, Embedding: axis(0)},
		}},
		&core.Document{ID: "other", Chunks: []core.Chunk{
			{ID: "o0", Index: 0, Text: strings.Repeat("payment terms ", 143)[:2000], Embedding: axis(2)},
		}},
	)
	require.NoError(t, err)
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.Repository())
		assert.NotNil(t, db.Matcher())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	provider := mock.NewMockProvider()
	db, err := NewDatabase(t.TempDir(), WithProvider(provider))
	require.NoError(t, err)

	err = db.Close()
	assert.NoError(t, err)
	assert.True(t, provider.Closed())
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db := newMemoryDatabase(t)

	t.Run("can create importer", func(t *testing.T) {
		importer, err := db.NewImporter()
		require.NoError(t, err)
		require.NotNil(t, importer)
		importer.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := db.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})
}

func TestDatabase_Compare(t *testing.T) {
	db := newMemoryDatabase(t)
	seedDocuments(t, db)
	ctx := context.Background()

	t.Run("shared clause", func(t *testing.T) {
		cmp, err := db.Compare(ctx, "master", "copy", core.DefaultMatchingOptions())
		require.NoError(t, err)
		require.Len(t, cmp.Matches, 1)

		m := cmp.Matches[0]
		assert.Equal(t, "m0", m.ChunkA.ID)
		assert.Equal(t, "c0", m.ChunkB.ID)
		assert.InDelta(t, 1.0, m.Score, 1e-6)
		assert.True(t, cmp.Evidence.Sufficient)

		assert.Equal(t, 1, cmp.Coverage.MatchCount)
		assert.Equal(t, 1600, cmp.Coverage.MatchedCharactersA)
		assert.Equal(t, 2400, cmp.Coverage.TotalCharactersA)
		assert.InDelta(t, 2.0/3.0, cmp.Coverage.CoverageA, 1e-9)
		assert.InDelta(t, 1.0, cmp.Coverage.CoverageB, 1e-9)
		assert.Equal(t, []string{"1"}, cmp.Coverage.PagesA)
	})

	t.Run("unrelated documents", func(t *testing.T) {
		cmp, err := db.Compare(ctx, "master", "other", core.DefaultMatchingOptions())
		require.NoError(t, err)
		assert.Nil(t, cmp.Matches)
		assert.False(t, cmp.Evidence.Sufficient)
		assert.Zero(t, cmp.Coverage.MatchCount)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := db.Compare(ctx, "master", "absent", core.DefaultMatchingOptions())
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestDatabase_CompareBatch(t *testing.T) {
	db := newMemoryDatabase(t)
	seedDocuments(t, db)
	ctx := context.Background()

	t.Run("targets default to every other document", func(t *testing.T) {
		result, err := db.CompareBatch(ctx, []string{"master"}, nil, core.DefaultMatchingOptions(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.MatchedPairs())
		assert.Len(t, result.Matches["master"]["copy"], 1)
		assert.Equal(t, []matching.PairKey{{SourceID: "master", TargetID: "other"}}, result.Rejected)
		assert.Empty(t, result.Failed)
	})

	t.Run("explicit targets", func(t *testing.T) {
		result, err := db.CompareBatch(ctx, []string{"copy"}, []string{"master"}, core.DefaultMatchingOptions(), nil)
		require.NoError(t, err)
		assert.Len(t, result.Matches["copy"]["master"], 1)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := db.CompareBatch(ctx, []string{"absent"}, nil, core.DefaultMatchingOptions(), nil)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
