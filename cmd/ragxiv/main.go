// Copyright 2025 The ragxiv Authors
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
	"strings"
	"time"

	"github.com/ragxiv/ragxiv/ai"
	"github.com/ragxiv/ragxiv/ai/openai"
	"github.com/ragxiv/ragxiv/annotate"
	"github.com/ragxiv/ragxiv/arxiv"
	"github.com/ragxiv/ragxiv/core"
	"github.com/ragxiv/ragxiv/harvest"
	"github.com/ragxiv/ragxiv/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ragxiv",
		Usage: "Extract structured metadata from arXiv papers with local language models",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Fetch recent papers from the arXiv API and store their text",
				Action: fetchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "arXiv category to query",
						Value: arxiv.DefaultCategory,
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Number of papers to fetch",
						Value: arxiv.DefaultMaxResults,
					},
					&cli.StringFlag{
						Name:  "data-dir",
						Usage: "Directory to keep downloaded PDFs in (PDFs are discarded if unset)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of papers processed concurrently",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed downloads",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "annotate",
				Usage:  "Run an extraction query against stored papers",
				Action: annotateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "query",
						Usage: fmt.Sprintf("Extraction query to run (%s)", strings.Join(ai.QueryNames(), ", ")),
						Value: ai.QueryMaterial,
					},
					&cli.StringFlag{
						Name:  "arxiv-id",
						Usage: "Annotate a single paper by its arXiv identifier",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Annotate every stored paper",
					},
					&cli.StringFlag{
						Name:  "generator-host",
						Usage: "OpenAI-compatible generator service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (defaults to generator-host if not specified)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "all-minilm",
					},
					&cli.StringFlag{
						Name:  "generator-model",
						Usage: "Generator model name",
						Value: "llama3.1:70b",
					},
					&cli.IntFlag{
						Name:  "n-top-chunks",
						Usage: "Number of retrieved chunks filled into the prompt",
						Value: annotate.DefaultConfig().TopChunks,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of papers annotated concurrently",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of papers to process in each batch",
						Value: annotate.DefaultConfig().BatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N papers",
						Value: annotate.DefaultConfig().ReportInterval,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List the most recently published stored papers",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of papers to list",
						Value: 20,
					},
				},
			},
			{
				Name:   "show",
				Usage:  "Show a stored paper and its annotation runs",
				Action: showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "arxiv-id",
						Usage:    "arXiv identifier of the paper to show",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func fetchCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	paperRepo, err := badger.NewPaperRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer paperRepo.Close()

	client := arxiv.NewClient()

	opts := []harvest.Option{
		harvest.WithPoolSize(c.Int("pool-size")),
		harvest.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if dir := c.String("data-dir"); dir != "" {
		opts = append(opts, harvest.WithDataDir(dir))
	}

	harvester, err := harvest.NewHarvester(client, paperRepo, opts...)
	if err != nil {
		return fmt.Errorf("failed to create harvester: %w", err)
	}
	defer harvester.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Category: %s\n", c.String("category"))
	fmt.Fprintln(os.Stderr)

	summary, err := harvester.Run(ctx, c.String("category"), c.Int("max-results"))
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Printf("Fetched %d papers: %d stored, %d already present, %d failed\n",
		summary.Fetched, summary.Stored, summary.Skipped, summary.Failed)
	return nil
}

func annotateCommand(c *cli.Context) error {
	ctx := context.Background()

	arxivID := c.String("arxiv-id")
	if arxivID == "" && !c.Bool("all") {
		return fmt.Errorf("either --arxiv-id or --all is required")
	}
	if arxivID != "" && c.Bool("all") {
		return fmt.Errorf("--arxiv-id and --all are mutually exclusive")
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	paperRepo, err := badger.NewPaperRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create paper repository: %w", err)
	}
	defer paperRepo.Close()

	annotationRepo, err := badger.NewAnnotationRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create annotation repository: %w", err)
	}
	defer annotationRepo.Close()

	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = c.String("generator-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithGeneratorHost(c.String("generator-host")),
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	cfg := annotate.DefaultConfig()
	cfg.TopChunks = c.Int("n-top-chunks")
	cfg.BatchSize = c.Int("batch-size")
	cfg.ReportInterval = c.Int("report-interval")
	cfg.MaxRetries = c.Int("max-retries")
	cfg.RetryDelay = c.Duration("retry-delay")

	annotator, err := annotate.NewAnnotator(provider, annotationRepo, aiConfig, cfg)
	if err != nil {
		return fmt.Errorf("failed to create annotator: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Generator host: %s\n", c.String("generator-host"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", embeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintf(os.Stderr, "Generator model: %s\n", c.String("generator-model"))
	fmt.Fprintln(os.Stderr)

	if arxivID != "" {
		paper, err := paperRepo.GetPaperByArxivId(ctx, arxivID)
		if err != nil {
			return fmt.Errorf("failed to load paper %s: %w", arxivID, err)
		}

		run, err := annotator.Annotate(ctx, paper, c.String("query"))
		if err != nil {
			return fmt.Errorf("annotation failed: %w", err)
		}
		printAnnotation(run)
		return nil
	}

	batch, err := annotate.NewBatch(annotator, paperRepo, cfg,
		annotate.WithPoolSize(c.Int("pool-size")),
		annotate.WithProgressWriter(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create batch runner: %w", err)
	}
	defer batch.Release()

	summary, err := batch.Run(ctx, c.String("query"))
	if err != nil {
		return fmt.Errorf("annotation failed: %w", err)
	}

	fmt.Printf("Annotated %d of %d papers: %d skipped, %d failed\n",
		summary.Annotated, summary.Total, summary.Skipped, summary.Failed)
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	paperRepo, err := badger.NewPaperRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer paperRepo.Close()

	papers, err := paperRepo.GetRecentPapers(ctx, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list papers: %w", err)
	}

	for _, paper := range papers {
		fmt.Printf("%s  %s  %s\n",
			paper.ArxivId,
			paper.Published.Format("2006-01-02"),
			paper.Title)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	paperRepo, err := badger.NewPaperRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create paper repository: %w", err)
	}
	defer paperRepo.Close()

	annotationRepo, err := badger.NewAnnotationRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create annotation repository: %w", err)
	}
	defer annotationRepo.Close()

	paper, err := paperRepo.GetPaperByArxivId(ctx, c.String("arxiv-id"))
	if err != nil {
		return fmt.Errorf("failed to load paper: %w", err)
	}

	fmt.Printf("arXiv ID:  %s\n", paper.ArxivId)
	fmt.Printf("Title:     %s\n", paper.Title)
	fmt.Printf("Published: %s\n", paper.Published.Format("2006-01-02"))
	if len(paper.Authors) > 0 {
		names := make([]string, len(paper.Authors))
		for i, a := range paper.Authors {
			names[i] = a.Name
		}
		fmt.Printf("Authors:   %s\n", strings.Join(names, ", "))
	}
	if paper.Pages > 0 {
		fmt.Printf("Pages:     %d\n", paper.Pages)
	}
	if paper.Figures > 0 {
		fmt.Printf("Figures:   %d\n", paper.Figures)
	}
	fmt.Printf("\n%s\n", paper.Summary)

	runs, err := annotationRepo.GetAnnotationsByPaper(ctx, paper.Id)
	if err != nil {
		return fmt.Errorf("failed to load annotations: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Printf("\nAnnotations:\n")
	for _, run := range runs {
		fmt.Printf("  [%s] %s (%s)\n", run.CreatedAt.Format(time.RFC3339), run.Query, run.GeneratorModel)
		if len(run.Methods) > 0 {
			for _, m := range run.Methods {
				if m.Acronym != "" {
					fmt.Printf("    - %s (%s)\n", m.Name, m.Acronym)
				} else {
					fmt.Printf("    - %s\n", m.Name)
				}
			}
			continue
		}
		fmt.Printf("    %s\n", run.Answer)
	}
	return nil
}

func printAnnotation(run *core.Annotation) {
	fmt.Printf("Query: %s\n", run.Query)
	if len(run.Methods) > 0 {
		for _, m := range run.Methods {
			if m.Acronym != "" {
				fmt.Printf("  - %s (%s)\n", m.Name, m.Acronym)
			} else {
				fmt.Printf("  - %s\n", m.Name)
			}
		}
		return
	}
	fmt.Printf("Answer: %s\n", run.Answer)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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
