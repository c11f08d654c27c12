package badger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/similarity"
	"github.com/poiesic/clausematch/storage"
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return nil, err
			}
			if info, err = os.Stat(filePath); err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	logger := slog.Default().With("component", "badger")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// FindSimilar scans every stored chunk and returns those whose cosine
// similarity with vector is at least minSimilarity, best first.
// Implements storage.Repository.
func (b *Backend) FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SearchResult, error) {
	if len(vector) == 0 || limit < 1 {
		return nil, fmt.Errorf("%w: vector length %d, limit %d", storage.ErrInvalidQuery, len(vector), limit)
	}

	var results []*core.SearchResult
	skipped := 0

	err := b.WithTx(func(tx *badger.Txn) error {
		// Chunk keys carry only the document hash; resolve it through the headers.
		owners, err := readDocumentOwners(tx)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentChunkPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := iter.Item()
			hash, err := documentHashFromChunkKey(item.Key())
			if err != nil {
				return err
			}
			docID, ok := owners[hash]
			if !ok {
				continue
			}

			chunk, err := readChunkItem(item)
			if err != nil {
				return err
			}

			if len(chunk.Embedding) != len(vector) {
				skipped++
				continue
			}
			score, err := similarity.Cosine(vector, chunk.Embedding)
			if err != nil {
				return err
			}
			if score >= minSimilarity {
				results = append(results, &core.SearchResult{
					DocumentID: docID,
					Chunk:      chunk.Ref(),
					Text:       chunk.Text,
					Score:      score,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if skipped > 0 {
		b.logger.Debug("skipped chunks with mismatched dimensions", "skipped", skipped, "dimensions", len(vector))
	}

	// Key order is the tie-breaker.
	slices.SortStableFunc(results, func(x, y *core.SearchResult) int {
		return cmp.Compare(y.Score, x.Score)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// readDocumentOwners maps document hashes to document IDs.
func readDocumentOwners(tx *badger.Txn) (map[core.ID]string, error) {
	owners := make(map[core.ID]string)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(documentInfoPrefix)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		info, err := readDocumentInfoItem(iter.Item())
		if err != nil {
			return nil, err
		}
		owners[documentHash(info.ID)] = info.ID
	}
	return owners, nil
}

func readDocumentInfoItem(item *badger.Item) (*core.DocumentInfo, error) {
	var info *core.DocumentInfo
	err := item.Value(func(val []byte) error {
		var err error
		info, err = storage.UnmarshalDocumentInfo(val)
		return err
	})
	return info, err
}

func readChunkItem(item *badger.Item) (*core.Chunk, error) {
	var chunk *core.Chunk
	err := item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	return chunk, err
}

// readDocumentInfo reads a document header. Returns nil, nil if absent.
func readDocumentInfo(tx *badger.Txn, key []byte) (*core.DocumentInfo, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return readDocumentInfoItem(item)
}
