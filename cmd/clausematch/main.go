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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/clausematch/config"
	"github.com/urfave/cli/v2"
)

const configMetadataKey = "config"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "clausematch",
		Usage: "Find shared clauses between chunked, embedded documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error); overrides the config file",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory; overrides the config file",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import documents from YAML or JSON files, embedding chunks without vectors",
				ArgsUsage: "FILE...",
				Action:    importCommand,
				Flags:     embeddingFlags(),
			},
			{
				Name:      "reembed",
				Usage:     "Re-embed stored chunk texts with the configured embedding model",
				ArgsUsage: "[ID...]",
				Action:    reembedCommand,
				Flags:     embeddingFlags(),
			},
			{
				Name:   "list",
				Usage:  "List stored documents",
				Action: listCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete stored documents",
				ArgsUsage: "ID...",
				Action:    deleteCommand,
			},
			{
				Name:      "compare",
				Usage:     "Compare two stored documents",
				ArgsUsage: "ID_A ID_B",
				Action:    compareCommand,
				Flags:     thresholdFlags(),
			},
			{
				Name:   "batch",
				Usage:  "Compare every source document with every target document",
				Action: batchCommand,
				Flags: append(thresholdFlags(),
					&cli.StringSliceFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Source document ID (repeatable)",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Target document ID (repeatable); defaults to every other stored document",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Find stored chunks similar to a clause",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(modelFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of hits (default from config)",
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Cosine floor for hits (default from config)",
					},
				),
			},
		},
	}
}

func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (default from config)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (default from config)",
		},
	}
}

func embeddingFlags() []cli.Flag {
	return append(modelFlags(),
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of chunks per embedding request (default from config)",
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Number of concurrent embedding requests",
			Value: 4,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum attempts per embedding request",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: defaultRetryDelay,
		},
	)
}

func thresholdFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "primary-threshold",
			Usage: "Minimum cosine similarity for a chunk match (default from config)",
		},
		&cli.Float64Flag{
			Name:  "jaccard-threshold",
			Usage: "Minimum token overlap for chunks with text (default from config)",
		},
		&cli.BoolFlag{
			Name:  "no-lexical",
			Usage: "Disable the token overlap filter",
		},
	}
}

// setup loads the config file, applies global flag overrides and configures
// the default logger.
func setup(c *cli.Context) error {
	cfg, err := config.LoadOrDefault(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("db") {
		cfg.Storage.DatabasePath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := setupLogger(cfg.LogLevel); err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[configMetadataKey] = cfg
	return nil
}

func setupLogger(levelStr string) error {
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func loadedConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configMetadataKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}
