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
	"log/slog"

	"github.com/ragxiv/ragxiv/ai"
	"github.com/ragxiv/ragxiv/chunk"
	"github.com/ragxiv/ragxiv/core"
	"github.com/ragxiv/ragxiv/retrieval"
	"github.com/ragxiv/ragxiv/storage"
)

// maxParseAttempts bounds how many times a structured query is
// regenerated when its answer fails to parse.
const maxParseAttempts = 3

// Annotator runs extraction queries over single papers.
type Annotator struct {
	retriever      *retrieval.Retriever
	generator      ai.Generator
	annotations    storage.AnnotationRepository
	splitter       *chunk.Splitter
	config         Config
	retrieverModel string
	generatorModel string
	logger         *slog.Logger
}

// NewAnnotator creates an annotator. The aiConfig supplies the model
// names recorded on each run; cfg tunes chunking and retrieval.
func NewAnnotator(provider ai.Provider, annotations storage.AnnotationRepository, aiConfig *ai.Config, cfg Config) (*Annotator, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if annotations == nil {
		return nil, ErrRepositoryRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	splitter, err := chunk.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	var retrieverModel, generatorModel string
	if aiConfig != nil {
		retrieverModel = aiConfig.EmbeddingModel
		generatorModel = aiConfig.GeneratorModel
	}

	return &Annotator{
		retriever:      retrieval.NewRetriever(provider.Embedder()),
		generator:      provider.Generator(),
		annotations:    annotations,
		splitter:       splitter,
		config:         cfg,
		retrieverModel: retrieverModel,
		generatorModel: generatorModel,
		logger:         slog.Default().With("component", "annotator"),
	}, nil
}

// Annotate runs the named query over the paper's text and persists the
// result as an Annotation. For structured queries the answer is parsed
// into methods, regenerating on a parse failure up to maxParseAttempts
// in total; if every attempt fails the raw answer is kept and a warning
// logged rather than discarding the run.
func (a *Annotator) Annotate(ctx context.Context, paper *core.Paper, queryName string) (*core.Annotation, error) {
	query, err := ai.LookupQuery(queryName)
	if err != nil {
		return nil, err
	}

	if paper.Text == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoText, paper.ArxivId)
	}

	chunks, err := a.splitter.Split(paper.Text)
	if err != nil {
		return nil, fmt.Errorf("chunk text: %w", err)
	}

	top, err := a.retriever.TopChunks(ctx, query.Retrieval, chunk.Texts(chunks), a.config.TopChunks)
	if err != nil {
		return nil, fmt.Errorf("retrieve chunks: %w", err)
	}
	if top == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoRelevantChunks, paper.ArxivId)
	}

	prompt := query.Prompt(top)
	answer, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	var methods []core.Method
	if query.Structured {
		var parseErr error
		methods, parseErr = ParseMethods(answer)
		for attempt := 2; parseErr != nil && attempt <= maxParseAttempts; attempt++ {
			a.logger.Warn("structured answer did not parse, regenerating",
				"arxiv_id", paper.ArxivId,
				"query", queryName,
				"attempt", attempt,
				"err", parseErr)
			answer, err = a.generator.Generate(ctx, prompt)
			if err != nil {
				return nil, fmt.Errorf("generate answer: %w", err)
			}
			methods, parseErr = ParseMethods(answer)
		}
		if parseErr != nil {
			a.logger.Warn("structured answer did not parse",
				"arxiv_id", paper.ArxivId,
				"query", queryName,
				"answer", answer,
				"err", parseErr)
			methods = nil
		}
	}

	annotation := &core.Annotation{
		PaperId:        paper.Id,
		Query:          queryName,
		RetrieverModel: a.retrieverModel,
		GeneratorModel: a.generatorModel,
		TopChunks:      a.config.TopChunks,
		Answer:         answer,
		Methods:        methods,
	}

	added, err := a.annotations.AddAnnotations(ctx, annotation)
	if err != nil {
		return nil, fmt.Errorf("store annotation: %w", err)
	}

	a.logger.Info("paper annotated",
		"arxiv_id", paper.ArxivId,
		"query", queryName,
		"methods", len(methods),
		"answer_length", len(answer))
	return added[0], nil
}
