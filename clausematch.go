// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package clausematch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/coverage"
	"github.com/poiesic/clausematch/embedding"
	"github.com/poiesic/clausematch/embedding/openai"
	"github.com/poiesic/clausematch/ingest"
	"github.com/poiesic/clausematch/matching"
	"github.com/poiesic/clausematch/search"
	"github.com/poiesic/clausematch/storage"
	"github.com/poiesic/clausematch/storage/badger"
)

type Database struct {
	backend  *badger.Backend
	repo     storage.DocumentRepository
	provider embedding.Provider
	matcher  *matching.Matcher
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	embeddingConfig *embedding.Config
	provider        embedding.Provider
	matcherOptions  []matching.Option
	inMemory        bool
	logger          *slog.Logger
}

// WithEmbeddingConfig sets the configuration of the default OpenAI-compatible
// embedding provider.
func WithEmbeddingConfig(config *embedding.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.embeddingConfig = config
	}
}

// WithProvider replaces the embedding provider. The database closes it.
func WithProvider(provider embedding.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithMatcherOptions configures the matcher used for comparisons.
func WithMatcherOptions(opts ...matching.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.matcherOptions = append(o.matcherOptions, opts...)
	}
}

// WithInMemory keeps the store in memory. The path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		embeddingConfig: embedding.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.embeddingConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	matcherOpts := append([]matching.Option{matching.WithLogger(options.logger)}, options.matcherOptions...)
	matcher, err := matching.NewMatcher(matcherOpts...)
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		repo:     repo,
		provider: provider,
		matcher:  matcher,
		logger:   options.logger,
	}, nil
}

func (db *Database) Close() error {
	db.matcher.Release()

	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing embedding provider", "err", err)
	}

	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Repository() storage.DocumentRepository {
	return db.repo
}

func (db *Database) Matcher() *matching.Matcher {
	return db.matcher
}

// NewImporter returns an importer that embeds through the database's provider.
// The caller releases it.
func (db *Database) NewImporter(opts ...ingest.Option) (*ingest.Importer, error) {
	base := []ingest.Option{
		ingest.WithEmbedder(db.provider.Embedder()),
		ingest.WithLogger(db.logger),
	}
	return ingest.NewImporter(db.repo, append(base, opts...)...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{search.WithLogger(db.logger)}
	return search.NewSearcher(db.repo, db.provider.Embedder(), append(base, opts...)...)
}

// Comparison is the result of comparing two stored documents.
type Comparison struct {
	*matching.PairResult
	Coverage coverage.Summary `json:"coverage"`
}

// Compare loads two stored documents and matches them.
func (db *Database) Compare(ctx context.Context, idA, idB string, opts core.MatchingOptions) (*Comparison, error) {
	a, err := db.repo.GetDocument(ctx, idA)
	if err != nil {
		return nil, err
	}
	b, err := db.repo.GetDocument(ctx, idB)
	if err != nil {
		return nil, err
	}

	result, err := db.matcher.Compare(ctx, a, b, opts)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		PairResult: result,
		Coverage:   coverage.Summarize(result.Matches, a.Chunks, b.Chunks),
	}, nil
}

// CompareBatch compares every stored source document with every stored
// target document. An empty target list compares against all stored
// documents that are not sources.
func (db *Database) CompareBatch(ctx context.Context, sourceIDs, targetIDs []string, opts core.MatchingOptions, monitor matching.Monitor) (*matching.BatchResult, error) {
	sources, err := db.loadDocuments(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}

	if len(targetIDs) == 0 {
		targetIDs, err = db.otherDocumentIDs(ctx, sourceIDs)
		if err != nil {
			return nil, err
		}
	}
	targets, err := db.loadDocuments(ctx, targetIDs)
	if err != nil {
		return nil, err
	}

	return db.matcher.BatchFindMatchesWithMonitor(ctx, sources, targets, opts, monitor)
}

func (db *Database) loadDocuments(ctx context.Context, ids []string) ([]*core.Document, error) {
	docs := make([]*core.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := db.repo.GetDocument(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (db *Database) otherDocumentIDs(ctx context.Context, exclude []string) ([]string, error) {
	infos, err := db.repo.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		if _, ok := skip[info.ID]; !ok {
			ids = append(ids, info.ID)
		}
	}
	return ids, nil
}
