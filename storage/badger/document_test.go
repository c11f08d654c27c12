package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testDocument(id string, n int) *core.Document {
	doc := &core.Document{ID: id, Title: "Document " + id}
	for i := 0; i < n; i++ {
		doc.Chunks = append(doc.Chunks, core.Chunk{
			ID:             fmt.Sprintf("%s-%d", id, i),
			Index:          i,
			PageNumber:     i/2 + 1,
			CharacterCount: 100 + i,
			Text:           fmt.Sprintf("clause %d of %s", i, id),
			Embedding:      []float32{float32(i), 1, 0},
		})
	}
	return doc
}

func TestDocumentRepository_PutAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	doc := testDocument("lease", 5)
	require.NoError(t, repo.PutDocuments(ctx, doc))

	got, err := repo.GetDocument(ctx, "lease")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDocumentRepository_ChunksReturnedInIndexOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	doc := testDocument("lease", 4)
	doc.Chunks[0], doc.Chunks[3] = doc.Chunks[3], doc.Chunks[0]
	doc.Chunks[1], doc.Chunks[2] = doc.Chunks[2], doc.Chunks[1]
	require.NoError(t, repo.PutDocuments(ctx, doc))

	got, err := repo.GetDocument(ctx, "lease")
	require.NoError(t, err)
	require.Len(t, got.Chunks, 4)
	for i, chunk := range got.Chunks {
		assert.Equal(t, i, chunk.Index)
	}
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	doc, err := repo.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Nil(t, doc)
}

func TestDocumentRepository_GetDocuments(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutDocuments(ctx, testDocument("a", 2), testDocument("b", 3)))

	docs, err := repo.GetDocuments(ctx, "b", "missing", "a")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
}

func TestDocumentRepository_Replace(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutDocuments(ctx, testDocument("lease", 6)))
	before, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	time.Sleep(2 * time.Millisecond)

	replacement := testDocument("lease", 2)
	replacement.Title = "Amended Lease"
	require.NoError(t, repo.PutDocuments(ctx, replacement))

	got, err := repo.GetDocument(ctx, "lease")
	require.NoError(t, err)
	assert.Equal(t, replacement, got, "chunks of the old version must be gone")

	after, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Amended Lease", after[0].Title)
	assert.Equal(t, 2, after[0].ChunkCount)
	assert.Equal(t, before[0].InsertedAt, after[0].InsertedAt)
	assert.True(t, after[0].UpdatedAt.After(before[0].UpdatedAt))
}

func TestDocumentRepository_PutRejectsInvalidDocuments(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	bad := testDocument("bad", 2)
	bad.Chunks[1].Embedding = []float32{1}

	err := repo.PutDocuments(ctx, testDocument("good", 2), bad)
	assert.ErrorIs(t, err, core.ErrInvalidDocument)

	// Nothing from the call is stored.
	infos, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestDocumentRepository_ListDocuments(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutDocuments(ctx, testDocument("zeta", 1), testDocument("alpha", 3), testDocument("mid", 2)))

	infos, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, []string{infos[0].ID, infos[1].ID, infos[2].ID})

	alpha := infos[0]
	assert.Equal(t, "Document alpha", alpha.Title)
	assert.Equal(t, 3, alpha.ChunkCount)
	assert.Equal(t, 100+101+102, alpha.TotalCharacters)
	assert.Equal(t, 3, alpha.Dimensions)
	assert.False(t, alpha.InsertedAt.IsZero())
}

func TestDocumentRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutDocuments(ctx, testDocument("a", 3), testDocument("b", 3)))
	require.NoError(t, repo.DeleteDocuments(ctx, "a"))

	_, err := repo.GetDocument(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	b, err := repo.GetDocument(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, b.Chunks, 3)

	results, err := repo.FindSimilar(ctx, []float32{0, 1, 0}, 0.1, 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "b", r.DocumentID)
	}
}

func TestDocumentRepository_DeleteMissing(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutDocuments(ctx, testDocument("a", 1)))

	err := repo.DeleteDocuments(ctx, "a", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// The failed call deletes nothing.
	_, err = repo.GetDocument(ctx, "a")
	assert.NoError(t, err)
}

func TestDocumentRepository_CanceledContext(t *testing.T) {
	repo := newTestRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.PutDocuments(ctx, testDocument("a", 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDocumentRepository_NilBackend(t *testing.T) {
	repo, err := NewDocumentRepository(nil)
	assert.Error(t, err)
	assert.Nil(t, repo)
}
