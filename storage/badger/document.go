package badger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: nil backend", storage.ErrStorageClosed)
	}
	return &DocumentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *DocumentRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// PutDocuments stores documents, replacing any existing ones with the same ID.
func (r *DocumentRepository) PutDocuments(ctx context.Context, docs ...*core.Document) error {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}

			infoKey := makeDocumentInfoKey(doc.ID)
			old, err := readDocumentInfo(tx, infoKey)
			if err != nil {
				return err
			}

			info := doc.Info()
			info.InsertedAt = now
			info.UpdatedAt = now
			if old != nil {
				info.InsertedAt = old.InsertedAt
				if err := deleteChunks(tx, old.ID); err != nil {
					return err
				}
			}

			if err := tx.Set(infoKey, storage.MarshalDocumentInfo(info)); err != nil {
				return err
			}

			chunks := slices.Clone(doc.Chunks)
			slices.SortStableFunc(chunks, func(a, b core.Chunk) int {
				return cmp.Compare(a.Index, b.Index)
			})
			for i := range chunks {
				if err := tx.Set(makeChunkKey(doc.ID, i), storage.MarshalChunk(&chunks[i])); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("storing documents: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(ctx, tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: document %q", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// GetDocuments retrieves the documents that exist among ids.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...string) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := readDocument(ctx, tx, id)
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListDocuments returns all document headers ordered by ID.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.DocumentInfo, error) {
	var result []*core.DocumentInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentInfoPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := readDocumentInfoItem(iter.Item())
			if err != nil {
				return err
			}
			result = append(result, info)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(result, func(a, b *core.DocumentInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

// DeleteDocuments removes documents and their chunks.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentInfoKey(id)
			info, err := readDocumentInfo(tx, key)
			if err != nil {
				return err
			}
			if info == nil || info.ID != id {
				return fmt.Errorf("%w: document %q", storage.ErrNotFound, id)
			}

			if err := deleteChunks(tx, id); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readDocument reads a document header and its chunks.
// Returns nil, nil if the document doesn't exist.
func readDocument(ctx context.Context, tx *badger.Txn, id string) (*core.Document, error) {
	info, err := readDocumentInfo(tx, makeDocumentInfoKey(id))
	if err != nil {
		return nil, err
	}
	// A different ID under the same key is a hash collision, not a hit.
	if info == nil || info.ID != id {
		return nil, nil
	}

	doc := &core.Document{
		ID:     info.ID,
		Title:  info.Title,
		Chunks: make([]core.Chunk, 0, info.ChunkCount),
	}

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeChunkPrefix(id)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := readChunkItem(iter.Item())
		if err != nil {
			return nil, err
		}
		doc.Chunks = append(doc.Chunks, *chunk)
	}

	if len(doc.Chunks) != info.ChunkCount {
		return nil, fmt.Errorf("%w: document %q has %d chunks, header says %d",
			storage.ErrTruncatedData, id, len(doc.Chunks), info.ChunkCount)
	}
	return doc, nil
}

// deleteChunks removes every chunk stored for a document.
func deleteChunks(tx *badger.Txn, id string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeChunkPrefix(id)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
