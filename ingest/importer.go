package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/embedding"
	"github.com/poiesic/clausematch/similarity"
	"github.com/poiesic/clausematch/storage"
)

const (
	defaultBatchSize      = embedding.DefaultBatchSize
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// Importer prepares documents and stores them for matching.
type Importer struct {
	repo           storage.DocumentRepository
	embedder       embedding.Embedder
	pool           *ants.Pool
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
	progress       io.Writer
	logger         *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithEmbedder sets the embedder used for chunks imported without vectors.
func WithEmbedder(embedder embedding.Embedder) Option {
	return func(im *Importer) error {
		im.embedder = embedder
		return nil
	}
}

// WithPoolSize sets how many embedding batches run at once.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if im.pool != nil {
			im.pool.Release()
		}
		im.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of texts per embedding request.
func WithBatchSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			return fmt.Errorf("batch size must be at least 1, got %d", size)
		}
		im.batchSize = size
		return nil
	}
}

// WithRetry sets the attempts and base backoff delay for embedding requests.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(im *Importer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		im.maxAttempts = maxAttempts
		im.retryBaseDelay = baseDelay
		return nil
	}
}

// WithProgress reports embedding progress to w.
func WithProgress(w io.Writer) Option {
	return func(im *Importer) error {
		im.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger.With("component", "importer")
		return nil
	}
}

// NewImporter creates a new importer. The embedder may be nil when every
// imported chunk already carries a vector.
func NewImporter(repo storage.DocumentRepository, opts ...Option) (*Importer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	pool, err := ants.NewPool(max(runtime.NumCPU()/2, 1))
	if err != nil {
		return nil, err
	}

	im := &Importer{
		repo:           repo,
		pool:           pool,
		batchSize:      defaultBatchSize,
		maxAttempts:    defaultMaxAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default().With("component", "importer"),
	}

	for _, opt := range opts {
		if optErr := opt(im); optErr != nil {
			im.Release()
			return nil, optErr
		}
	}

	return im, nil
}

// Release releases the worker pool.
// The importer should not be used after calling Release.
func (im *Importer) Release() {
	if im.pool != nil {
		im.pool.Release()
	}
}

// Stats summarizes one Import call.
type Stats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
	Embedded  int `json:"embedded"`
}

// Import fills derived fields, embeds chunks without vectors, normalizes
// every vector and stores the documents. Documents are modified in place.
// Nothing is stored unless every document is valid and every embedding
// request succeeds.
func (im *Importer) Import(ctx context.Context, docs ...*core.Document) (*Stats, error) {
	stats := &Stats{Documents: len(docs)}

	var pending []*core.Chunk
	for _, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("%w: document is nil", core.ErrInvalidDocument)
		}
		fillDerivedFields(doc)
		stats.Chunks += len(doc.Chunks)

		for i := range doc.Chunks {
			chunk := &doc.Chunks[i]
			if len(chunk.Embedding) > 0 {
				continue
			}
			if chunk.Text == "" {
				return nil, fmt.Errorf("%w: %s/%s: %w", core.ErrInvalidChunk, doc.ID, chunk.ID, ErrNothingToEmbed)
			}
			pending = append(pending, chunk)
		}
	}

	if len(pending) > 0 {
		if im.embedder == nil {
			return nil, fmt.Errorf("%w: %d chunks", ErrEmbedderRequired, len(pending))
		}
		if err := im.embedChunks(ctx, pending); err != nil {
			return nil, err
		}
		stats.Embedded = len(pending)
	}

	for _, doc := range docs {
		for i := range doc.Chunks {
			doc.Chunks[i].Embedding = similarity.Normalize(doc.Chunks[i].Embedding)
		}
	}

	if err := im.repo.PutDocuments(ctx, docs...); err != nil {
		return nil, err
	}

	im.logger.Info("imported documents",
		"documents", stats.Documents,
		"chunks", stats.Chunks,
		"embedded", stats.Embedded)
	return stats, nil
}

// embedChunks embeds chunk texts in batches on the worker pool.
func (im *Importer) embedChunks(ctx context.Context, chunks []*core.Chunk) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	if im.progress != nil {
		tracker = NewProgressTracker(im.progress, len(chunks), im.batchSize)
		tracker.Start()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for start := 0; start < len(chunks); start += im.batchSize {
		batch := chunks[start:min(start+im.batchSize, len(chunks))]

		wg.Add(1)
		err := im.pool.Submit(func() {
			defer wg.Done()
			if err := im.embedBatch(ctx, batch); err != nil {
				fail(err)
				return
			}
			if tracker != nil {
				tracker.Increment(len(batch))
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if tracker != nil {
		tracker.Finish()
	}
	return nil
}

func (im *Importer) embedBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = im.embedder.EmbedTexts(ctx, texts)
		return err
	}, im.maxAttempts, im.retryBaseDelay)
	if err != nil {
		im.logger.Error("error generating embeddings", "chunks", len(batch), "err", err)
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", im.maxAttempts, err)
	}

	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
	}

	for i, chunk := range batch {
		chunk.Embedding = vectors[i]
	}
	return nil
}

// fillDerivedFields sets chunk fields the producer may leave out.
func fillDerivedFields(doc *core.Document) {
	if len(doc.Chunks) > 1 && allIndexesZero(doc.Chunks) {
		for i := range doc.Chunks {
			doc.Chunks[i].Index = i
		}
	}

	for i := range doc.Chunks {
		chunk := &doc.Chunks[i]
		if chunk.CharacterCount == 0 {
			// Code points, not UTF-16 units.
			chunk.CharacterCount = utf8.RuneCountInString(chunk.Text)
		}
		if chunk.PageNumber == 0 {
			chunk.PageNumber = 1
		}
		if chunk.ID == "" {
			chunk.ID = MintChunkID(doc.ID, chunk.Index, chunk.Text)
		}
	}
}

func allIndexesZero(chunks []core.Chunk) bool {
	for i := range chunks {
		if chunks[i].Index != 0 {
			return false
		}
	}
	return true
}

// MintChunkID derives a stable chunk ID from its document, position and text.
func MintChunkID(docID string, index int, text string) string {
	id := core.IDFromContent(fmt.Sprintf("%s/%d/%s", docID, index, text))
	return fmt.Sprintf("%s-%016x", docID, uint64(id))
}
