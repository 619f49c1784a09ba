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


package annotate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/ragxiv/ragxiv/core"
	"github.com/ragxiv/ragxiv/harvest"
	"github.com/ragxiv/ragxiv/storage"
)

// BatchSummary reports the outcome of a batch annotation run.
type BatchSummary struct {
	Total     int // papers considered
	Annotated int // papers annotated successfully
	Skipped   int // papers without extracted text
	Failed    int // papers that failed after retries
}

// Batch applies an extraction query to every stored paper.
type Batch struct {
	annotator      *Annotator
	papers         storage.PaperRepository
	pool           *ants.Pool
	config         Config
	progressWriter io.Writer
	logger         *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch) error

// WithPoolSize sets the worker pool size for concurrent annotation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BatchOption {
	return func(b *Batch) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithProgressWriter sets where progress reports are written.
// Default is io.Discard.
func WithProgressWriter(w io.Writer) BatchOption {
	return func(b *Batch) error {
		if w == nil {
			w = io.Discard
		}
		b.progressWriter = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBatch creates a batch runner over the given annotator.
func NewBatch(annotator *Annotator, papers storage.PaperRepository, cfg Config, opts ...BatchOption) (*Batch, error) {
	if annotator == nil {
		return nil, fmt.Errorf("%w: annotator", ErrRepositoryRequired)
	}
	if papers == nil {
		return nil, fmt.Errorf("%w: papers", ErrRepositoryRequired)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Batch{
		annotator:      annotator,
		papers:         papers,
		pool:           pool,
		config:         cfg,
		progressWriter: io.Discard,
		logger:         slog.Default().With("component", "annotate-batch"),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Run annotates every stored paper with the named query. Papers without
// extracted text are skipped; per-paper failures are retried with
// backoff and then counted. The context is checked between batches, so
// cancellation stops the run at a batch boundary.
func (b *Batch) Run(ctx context.Context, queryName string) (BatchSummary, error) {
	var summary BatchSummary

	papers, err := b.papers.GetAllPapers(ctx)
	if err != nil {
		return summary, fmt.Errorf("list papers: %w", err)
	}
	summary.Total = len(papers)
	if len(papers) == 0 {
		return summary, nil
	}

	tracker := NewProgressTracker(b.progressWriter, len(papers), b.config.ReportInterval)
	tracker.Start()
	defer tracker.Finish()

	var mu sync.Mutex
	for start := 0; start < len(papers); start += b.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		end := start + b.config.BatchSize
		if end > len(papers) {
			end = len(papers)
		}

		var wg sync.WaitGroup
		for _, paper := range papers[start:end] {
			if paper.Text == "" {
				mu.Lock()
				summary.Skipped++
				mu.Unlock()
				tracker.Increment(1)
				continue
			}

			paper := paper
			wg.Add(1)
			if submitErr := b.pool.Submit(func() {
				defer wg.Done()
				defer tracker.Increment(1)

				annotateErr := harvest.RetryWithBackoff(ctx, func() error {
					_, err := b.annotator.Annotate(ctx, paper, queryName)
					return err
				}, b.config.MaxRetries, b.config.RetryDelay)

				mu.Lock()
				defer mu.Unlock()
				if annotateErr != nil {
					b.logger.Error("failed to annotate paper",
						"arxiv_id", paper.ArxivId, "query", queryName, "err", annotateErr)
					summary.Failed++
					return
				}
				summary.Annotated++
			}); submitErr != nil {
				wg.Done()
				tracker.Increment(1)
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				b.logger.Error("failed to submit paper to pool",
					"arxiv_id", paper.ArxivId, "err", submitErr)
			}
		}
		wg.Wait()
	}

	b.logger.Info("batch annotation complete",
		"query", queryName,
		"total", summary.Total,
		"annotated", summary.Annotated,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

// ModelPapers returns the papers whose latest "material" annotation
// answered "model", i.e. papers studying toy models rather than real
// materials.
func (b *Batch) ModelPapers(ctx context.Context, annotations storage.AnnotationRepository) ([]*core.Paper, error) {
	papers, err := b.papers.GetAllPapers(ctx)
	if err != nil {
		return nil, err
	}

	var result []*core.Paper
	for _, paper := range papers {
		runs, err := annotations.GetAnnotationsByPaper(ctx, paper.Id)
		if err != nil {
			return nil, err
		}
		for i := len(runs) - 1; i >= 0; i-- {
			if runs[i].Query != "material" {
				continue
			}
			if runs[i].IsModelSystem() {
				result = append(result, paper)
			}
			break
		}
	}
	return result, nil
}

// Release releases the worker pool. The batch should not be used after
// calling Release.
func (b *Batch) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
