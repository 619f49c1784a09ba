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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPaper indicates a Paper failed validation.
	ErrInvalidPaper = errors.New("invalid paper")

	// ErrInvalidAnnotation indicates an Annotation failed validation.
	ErrInvalidAnnotation = errors.New("invalid annotation")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrEmptyArxivId indicates the ArxivId field is empty.
	ErrEmptyArxivId = errors.New("arxiv id cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptySummary indicates the Summary field is empty.
	ErrEmptySummary = errors.New("summary cannot be empty")

	// ErrEmptyQuery indicates the annotation Query field is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrMissingPaperId indicates an annotation without a paper reference.
	ErrMissingPaperId = errors.New("paper id is required")
)
