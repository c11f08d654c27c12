package search

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/embedding"
	"github.com/poiesic/clausematch/storage"
)

const (
	// DefaultMinSimilarity is the cosine floor for search hits.
	DefaultMinSimilarity = 0.80

	// verbatimBoost ranks hits containing every query word ahead of others.
	verbatimBoost = 0.3

	// candidateFactor over-fetches so verbatim hits can be promoted.
	candidateFactor = 3
)

// Searcher finds stored chunks similar to a query clause.
type Searcher struct {
	repository    storage.DocumentRepository
	embedder      embedding.Embedder
	minSimilarity float64
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithMinSimilarity sets the cosine floor for hits.
// Default is DefaultMinSimilarity.
func WithMinSimilarity(min float64) Option {
	return func(s *Searcher) error {
		s.minSimilarity = min
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "searcher")
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.DocumentRepository, embedder embedding.Embedder, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository:    repository,
		embedder:      embedder,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar returns up to maxHits stored chunks similar to query.
// Verbatim hits come first; within each group hits are ordered by score.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	results, err := s.repository.FindSimilar(ctx, vector, s.minSimilarity, maxHits*candidateFactor)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}

	for _, r := range results {
		r.Verbatim = containsAllQueryWords(r.Text, query)
	}

	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		return cmp.Compare(rank(b), rank(a))
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}

	s.logger.Debug("search finished", "query", query, "hits", len(results))
	return results, nil
}

func rank(r *core.SearchResult) float64 {
	if r.Verbatim {
		return r.Score + verbatimBoost
	}
	return r.Score
}
