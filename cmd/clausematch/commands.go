package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/poiesic/clausematch"
	"github.com/poiesic/clausematch/config"
	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/ingest"
	"github.com/poiesic/clausematch/matching"
	"github.com/poiesic/clausematch/search"
	"github.com/urfave/cli/v2"
)

const defaultRetryDelay = 1 * time.Second

func openDatabase(cfg *config.Config) (*clausematch.Database, error) {
	var matcherOpts []matching.Option
	if cfg.Matching.PoolSize > 0 {
		matcherOpts = append(matcherOpts, matching.WithPoolSize(cfg.Matching.PoolSize))
	}
	if cfg.Matching.EarlyExitWindow != nil {
		matcherOpts = append(matcherOpts, matching.WithEarlyExitWindow(*cfg.Matching.EarlyExitWindow))
	}

	db, err := clausematch.NewDatabase(cfg.Storage.DatabasePath,
		clausematch.WithEmbeddingConfig(&cfg.Embedding),
		clausematch.WithMatcherOptions(matcherOpts...),
		clausematch.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// withModelFlags returns a copy of cfg with the embedding flags applied.
func withModelFlags(c *cli.Context, cfg *config.Config) (*config.Config, error) {
	if !c.IsSet("embedding-host") && !c.IsSet("embedding-model") {
		return cfg, nil
	}

	updated := *cfg
	if c.IsSet("embedding-host") {
		updated.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		updated.Embedding.Model = c.String("embedding-model")
	}
	if err := updated.Embedding.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}
	return &updated, nil
}

// matchingOptions starts from the config file thresholds and applies flags.
func matchingOptions(c *cli.Context, cfg *config.Config) core.MatchingOptions {
	opts := cfg.Matching.MatchingOptions
	if c.IsSet("primary-threshold") {
		opts.PrimaryThreshold = c.Float64("primary-threshold")
	}
	if c.IsSet("jaccard-threshold") {
		opts.JaccardThreshold = c.Float64("jaccard-threshold")
	}
	if c.Bool("no-lexical") {
		opts.JaccardThreshold = 0
	}
	return opts
}

func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func loadDocuments(paths []string) ([]*core.Document, error) {
	var docs []*core.Document
	for _, path := range paths {
		var (
			loaded []*core.Document
			err    error
		)
		if path == "-" {
			loaded, err = ingest.Decode(os.Stdin)
		} else {
			loaded, err = ingest.LoadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one FILE is required")
	}
	cfg, err := withModelFlags(c, loadedConfig(c))
	if err != nil {
		return err
	}

	docs, err := loadDocuments(c.Args().Slice())
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := db.NewImporter(importerOptions(c, cfg)...)
	if err != nil {
		return err
	}
	defer importer.Release()

	stats, err := importer.Import(c.Context, docs...)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return newPrinter(c).stats("Imported", stats)
}

func reembedCommand(c *cli.Context) error {
	cfg, err := withModelFlags(c, loadedConfig(c))
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := db.NewImporter(importerOptions(c, cfg)...)
	if err != nil {
		return err
	}
	defer importer.Release()

	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.Embedding.Host)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.Embedding.Model)

	stats, err := importer.Reembed(c.Context, c.Args().Slice()...)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return newPrinter(c).stats("Reembedded", stats)
}

func importerOptions(c *cli.Context, cfg *config.Config) []ingest.Option {
	batchSize := cfg.Embedding.BatchSize
	if c.IsSet("batch-size") {
		batchSize = c.Int("batch-size")
	}
	opts := []ingest.Option{
		ingest.WithBatchSize(batchSize),
		ingest.WithPoolSize(c.Int("pool-size")),
		ingest.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if stderrIsTerminal() {
		opts = append(opts, ingest.WithProgress(os.Stderr))
	}
	return opts
}

func listCommand(c *cli.Context) error {
	db, err := openDatabase(loadedConfig(c))
	if err != nil {
		return err
	}
	defer db.Close()

	infos, err := db.Repository().ListDocuments(c.Context)
	if err != nil {
		return err
	}
	return newPrinter(c).documents(infos)
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one ID is required")
	}

	db, err := openDatabase(loadedConfig(c))
	if err != nil {
		return err
	}
	defer db.Close()

	ids := c.Args().Slice()
	if err := db.Repository().DeleteDocuments(c.Context, ids...); err != nil {
		return err
	}
	return newPrinter(c).deleted(ids)
}

func compareCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("compare requires exactly two document IDs")
	}
	cfg := loadedConfig(c)
	idA, idB := c.Args().Get(0), c.Args().Get(1)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	cmp, err := db.Compare(c.Context, idA, idB, matchingOptions(c, cfg))
	if err != nil {
		return err
	}
	return newPrinter(c).comparison(idA, idB, cmp)
}

func batchCommand(c *cli.Context) error {
	cfg := loadedConfig(c)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var monitor matching.Monitor
	if stderrIsTerminal() {
		monitor = newProgressMonitor(os.Stderr)
	}

	result, err := db.CompareBatch(c.Context, c.StringSlice("source"), c.StringSlice("target"), matchingOptions(c, cfg), monitor)
	if err != nil {
		return err
	}
	return newPrinter(c).batch(result)
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("a QUERY is required")
	}
	cfg, err := withModelFlags(c, loadedConfig(c))
	if err != nil {
		return err
	}

	limit := cfg.Search.Limit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}
	minSimilarity := cfg.Search.MinSimilarity
	if c.IsSet("min-similarity") {
		minSimilarity = c.Float64("min-similarity")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher(search.WithMinSimilarity(minSimilarity))
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilar(c.Context, strings.Join(c.Args().Slice(), " "), limit)
	if err != nil {
		return err
	}
	return newPrinter(c).searchResults(results)
}
