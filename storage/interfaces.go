package storage

import (
	"context"

	"github.com/poiesic/clausematch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds stored chunks similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	// Chunks whose embedding length differs from vector are skipped.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SearchResult, error)

	// Close releases repository resources. It does not close the backend.
	Close() error
}

// DocumentRepository provides operations for managing chunked documents.
type DocumentRepository interface {
	Repository

	// PutDocuments stores one or more documents in a single transaction.
	// An existing document with the same ID is replaced; its InsertedAt
	// timestamp is kept. Every document is validated before anything is
	// written.
	PutDocuments(ctx context.Context, docs ...*core.Document) error

	// GetDocument retrieves a document with its chunks in index order.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...string) ([]*core.Document, error)

	// ListDocuments returns the headers of all stored documents ordered by ID.
	ListDocuments(ctx context.Context) ([]*core.DocumentInfo, error)

	// DeleteDocuments removes documents and their chunks.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...string) error
}
