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


// Package retrieval ranks text chunks against a query by embedding
// similarity and selects the most relevant ones for prompting.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/ragxiv/ragxiv/ai"
)

// DefaultTopChunks is the number of chunks retrieved when none is given.
const DefaultTopChunks = 5

// ScoredChunk is a chunk with its cosine similarity to the query.
type ScoredChunk struct {
	Text  string
	Score float64
}

// Retriever ranks chunks by semantic similarity to a query.
type Retriever struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewRetriever creates a Retriever backed by the given embedder.
func NewRetriever(embedder ai.Embedder) *Retriever {
	return &Retriever{
		embedder: embedder,
		logger:   slog.Default().With("component", "retriever"),
	}
}

// Rank embeds the query and every chunk and returns all chunks sorted
// by descending cosine similarity. An empty chunk list yields an empty
// result.
func (r *Retriever) Rank(ctx context.Context, query string, chunks []string) ([]ScoredChunk, error) {
	if len(chunks) == 0 {
		r.logger.Warn("no chunks provided")
		return nil, nil
	}

	queryVec, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunkVecs, err := r.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(chunkVecs) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(chunkVecs), len(chunks))
	}

	scored := make([]ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		scored[i] = ScoredChunk{
			Text:  chunk,
			Score: cosineSimilarity(queryVec, chunkVecs[i]),
		}
	}

	slices.SortStableFunc(scored, func(a, b ScoredChunk) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return scored, nil
}

// TopChunks returns the k most relevant chunks joined by blank lines,
// ready to fill a prompt template. k defaults to DefaultTopChunks.
func (r *Retriever) TopChunks(ctx context.Context, query string, chunks []string, k int) (string, error) {
	if k <= 0 {
		k = DefaultTopChunks
	}

	scored, err := r.Rank(ctx, query, chunks)
	if err != nil {
		return "", err
	}
	if len(scored) == 0 {
		return "", nil
	}

	if k > len(scored) {
		k = len(scored)
	}

	top := make([]string, k)
	scores := make([]float64, k)
	for i := 0; i < k; i++ {
		top[i] = scored[i].Text
		scores[i] = scored[i].Score
	}

	r.logger.Info("retrieved top chunks", "k", k, "scores", scores)
	return strings.Join(top, "\n\n"), nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for mismatched or zero-length vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
