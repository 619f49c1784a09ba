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

package ragxiv

import (
	"log/slog"

	"github.com/ragxiv/ragxiv/ai"
	"github.com/ragxiv/ragxiv/ai/openai"
	"github.com/ragxiv/ragxiv/annotate"
	"github.com/ragxiv/ragxiv/arxiv"
	"github.com/ragxiv/ragxiv/harvest"
	"github.com/ragxiv/ragxiv/storage"
	"github.com/ragxiv/ragxiv/storage/badger"
)

// Library bundles the paper database and the AI provider behind a single
// handle. It is the entry point for embedding the extraction pipeline in
// other programs.
type Library struct {
	backend        *badger.Backend
	paperRepo      storage.PaperRepository
	annotationRepo storage.AnnotationRepository
	provider       ai.Provider
	aiConfig       *ai.Config
	logger         *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI configuration used to build the provider.
func WithAIConfig(cfg *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a pre-built AI provider instead of constructing one
// from the configuration. Used mainly by tests.
func WithProvider(provider ai.Provider) LibraryOption {
	return func(o *libraryOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all data in memory instead of on disk.
func WithInMemoryStorage() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

func OpenLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	paperRepo, err := badger.NewPaperRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	annotationRepo, err := badger.NewAnnotationRepository(backend)
	if err != nil {
		paperRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			annotationRepo.Close()
			paperRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Library{
		backend:        backend,
		paperRepo:      paperRepo,
		annotationRepo: annotationRepo,
		provider:       provider,
		aiConfig:       options.aiConfig,
		logger:         slog.Default(),
	}, nil
}

func (l *Library) Close() error {
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}

	if err := l.annotationRepo.Close(); err != nil {
		l.logger.Error("error closing annotation repository", "err", err)
		return err
	}
	if err := l.paperRepo.Close(); err != nil {
		l.logger.Error("error closing paper repository", "err", err)
		return err
	}

	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (l *Library) PaperRepository() storage.PaperRepository {
	return l.paperRepo
}

func (l *Library) AnnotationRepository() storage.AnnotationRepository {
	return l.annotationRepo
}

// NewHarvester builds a harvester that fetches papers from the given arXiv
// client into this library.
func (l *Library) NewHarvester(client *arxiv.Client, opts ...harvest.Option) (*harvest.Harvester, error) {
	return harvest.NewHarvester(client, l.paperRepo, opts...)
}

// NewAnnotator builds an annotator that runs extraction queries against
// papers stored in this library.
func (l *Library) NewAnnotator(cfg annotate.Config) (*annotate.Annotator, error) {
	return annotate.NewAnnotator(l.provider, l.annotationRepo, l.aiConfig, cfg)
}

// NewBatch builds a batch runner over all papers in this library.
func (l *Library) NewBatch(cfg annotate.Config, opts ...annotate.BatchOption) (*annotate.Batch, error) {
	annotator, err := l.NewAnnotator(cfg)
	if err != nil {
		return nil, err
	}
	return annotate.NewBatch(annotator, l.paperRepo, cfg, opts...)
}
