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


package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/ragxiv/ragxiv/core"
	"github.com/ragxiv/ragxiv/pdftext"
	"github.com/ragxiv/ragxiv/storage"
)

// Fetcher is the arXiv client surface the harvester needs.
// *arxiv.Client satisfies it.
type Fetcher interface {
	FetchRecent(ctx context.Context, category string, maxResults int) ([]*core.Paper, error)
	DownloadPDF(ctx context.Context, paper *core.Paper) ([]byte, error)
}

// Summary reports the outcome of a harvest run.
type Summary struct {
	Fetched int // papers returned by the feed
	Stored  int // papers downloaded, extracted, and persisted
	Skipped int // papers already in the repository
	Failed  int // papers that could not be processed
}

// Harvester fetches recent papers for a category and stores them with
// extracted text.
type Harvester struct {
	fetcher     Fetcher
	papers      storage.PaperRepository
	pool        *ants.Pool
	dataDir     string
	maxRetries  int
	retryDelay  time.Duration
	extractText func([]byte) (string, error)
	logger      *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester) error

// WithPoolSize sets the worker pool size for concurrent downloads.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(h *Harvester) error {
		if size < 1 {
			size = 1
		}
		if h.pool != nil {
			h.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		h.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// WithDataDir keeps downloaded PDFs on disk under dir, named
// {arxivID}.pdf. Default is to process PDFs in memory only.
func WithDataDir(dir string) Option {
	return func(h *Harvester) error {
		h.dataDir = dir
		return nil
	}
}

// WithRetry configures download retries. Default is 3 attempts with a
// one-second base delay.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(h *Harvester) error {
		if maxRetries <= 0 {
			return ErrInvalidMaxAttempts
		}
		h.maxRetries = maxRetries
		h.retryDelay = baseDelay
		return nil
	}
}

// NewHarvester creates a harvester.
func NewHarvester(fetcher Fetcher, papers storage.PaperRepository, opts ...Option) (*Harvester, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if papers == nil {
		return nil, ErrRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	h := &Harvester{
		fetcher:     fetcher,
		papers:      papers,
		pool:        pool,
		maxRetries:  3,
		retryDelay:  time.Second,
		extractText: pdftext.Extract,
		logger:      slog.Default().With("component", "harvester"),
	}

	for _, opt := range opts {
		if optErr := opt(h); optErr != nil {
			h.Release()
			return nil, optErr
		}
	}

	return h, nil
}

// Run fetches the feed for a category and processes each new paper
// concurrently: download the PDF, extract and clean the text, and store
// the paper. Papers already in the repository are skipped. Per-paper
// failures are logged and counted.
func (h *Harvester) Run(ctx context.Context, category string, maxResults int) (Summary, error) {
	var summary Summary

	fetched, err := h.fetcher.FetchRecent(ctx, category, maxResults)
	if err != nil {
		return summary, fmt.Errorf("fetch feed: %w", err)
	}
	summary.Fetched = len(fetched)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, paper := range fetched {
		_, err := h.papers.GetPaperByArxivId(ctx, paper.ArxivId)
		if err == nil {
			h.logger.Debug("paper already stored", "arxiv_id", paper.ArxivId)
			summary.Skipped++
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			// Let already-submitted workers finish before reporting,
			// so the returned summary is not written concurrently.
			wg.Wait()
			return summary, fmt.Errorf("check existing paper: %w", err)
		}

		paper := paper
		wg.Add(1)
		if submitErr := h.pool.Submit(func() {
			defer wg.Done()
			if procErr := h.process(ctx, paper); procErr != nil {
				h.logger.Error("failed to process paper", "arxiv_id", paper.ArxivId, "err", procErr)
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			summary.Stored++
			mu.Unlock()
		}); submitErr != nil {
			wg.Done()
			mu.Lock()
			summary.Failed++
			mu.Unlock()
			h.logger.Error("failed to submit paper to pool", "arxiv_id", paper.ArxivId, "err", submitErr)
		}
	}

	wg.Wait()

	h.logger.Info("harvest complete",
		"category", category,
		"fetched", summary.Fetched,
		"stored", summary.Stored,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

// process downloads, extracts, cleans, and stores a single paper.
func (h *Harvester) process(ctx context.Context, paper *core.Paper) error {
	var pdfData []byte
	err := RetryWithBackoff(ctx, func() error {
		var downloadErr error
		pdfData, downloadErr = h.fetcher.DownloadPDF(ctx, paper)
		return downloadErr
	}, h.maxRetries, h.retryDelay)
	if err != nil {
		return fmt.Errorf("download pdf: %w", err)
	}

	if h.dataDir != "" {
		if err := h.savePDF(paper.ArxivId, pdfData); err != nil {
			// storage on disk is best effort, the pipeline works in memory
			h.logger.Warn("failed to save pdf", "arxiv_id", paper.ArxivId, "err", err)
		}
	}

	text, err := h.extractText(pdfData)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return fmt.Errorf("no text extracted")
	}

	// references must go before cleaning flattens the newlines
	text = pdftext.StripReferences(text)
	paper.Text = pdftext.Clean(text)

	if _, err := h.papers.AddPapers(ctx, paper); err != nil {
		return fmt.Errorf("store paper: %w", err)
	}

	h.logger.Info("paper stored", "arxiv_id", paper.ArxivId, "text_length", len(paper.Text))
	return nil
}

func (h *Harvester) savePDF(arxivID string, data []byte) error {
	if err := os.MkdirAll(h.dataDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(h.dataDir, arxivID+".pdf")
	return os.WriteFile(path, data, 0o644)
}

// Release releases the worker pool. The harvester should not be used
// after calling Release.
func (h *Harvester) Release() {
	if h.pool != nil {
		h.pool.Release()
	}
}
