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


// Package chunk splits cleaned paper text into overlapping pieces sized
// for embedding. It wraps langchaingo's recursive character splitter and
// tracks where each chunk starts in the source text.
package chunk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// ErrEmptyText is returned by Split when the input is blank.
var ErrEmptyText = errors.New("text must not be empty")

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the number of characters shared between
	// consecutive chunks.
	DefaultChunkOverlap = 200
)

// Chunk is a piece of a larger text with its position in the source.
type Chunk struct {
	Text       string
	StartIndex int
}

// Splitter divides text into overlapping chunks.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a Splitter. A non-positive size and a negative
// overlap fall back to the defaults; zero overlap is a valid setting.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Split divides text into chunks. Blank input is an error.
func (s *Splitter) Split(text string) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.size),
		textsplitter.WithChunkOverlap(s.overlap),
	)

	pieces, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	chunks := make([]Chunk, 0, len(pieces))
	searchFrom := 0
	for _, piece := range pieces {
		absolute := searchFrom
		if start := strings.Index(text[searchFrom:], piece); start >= 0 {
			absolute = searchFrom + start
		} else if start = strings.Index(text, piece); start >= 0 {
			absolute = start
		}
		chunks = append(chunks, Chunk{Text: piece, StartIndex: absolute})
		// consecutive chunks overlap, so only move one past the start
		if absolute+1 <= len(text) {
			searchFrom = absolute + 1
		}
	}

	return chunks, nil
}

// Texts returns just the chunk strings, in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
