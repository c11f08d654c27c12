package ingest

import "errors"

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrEmbedderRequired is returned when chunks lack vectors and no embedder is configured.
	ErrEmbedderRequired = errors.New("embedder required for chunks without embeddings")

	// ErrNothingToEmbed is returned for a chunk with neither a vector nor text.
	ErrNothingToEmbed = errors.New("chunk has neither embedding nor text")

	// ErrUnsupportedFormat is returned for input files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
