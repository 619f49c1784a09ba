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

import (
	"fmt"
	"time"
)

// ValidatePaper validates a Paper according to domain rules.
//
// Validation rules:
//   - ArxivId must not be empty
//   - Title must not be empty
//   - Summary must not be empty
//   - Published and Updated must not be in the future
//
// NOT validated (populated by the harvest pipeline):
//   - Text (empty until the PDF has been extracted)
//   - Pages/Figures (0 when the comment carries no counts)
func ValidatePaper(paper *Paper) error {
	if paper == nil {
		return fmt.Errorf("%w: paper is nil", ErrInvalidPaper)
	}

	if paper.ArxivId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptyArxivId)
	}

	if paper.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptyTitle)
	}

	if paper.Summary == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptySummary)
	}

	if !IsValidTimestamp(paper.Published) || !IsValidTimestamp(paper.Updated) {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateAnnotation validates an Annotation according to domain rules.
//
// Validation rules:
//   - PaperId must be set
//   - Query must not be empty
//
// NOT validated:
//   - Answer and Methods (empty answers are a legitimate generator outcome)
//   - ID (0 is valid from database sequences)
func ValidateAnnotation(annotation *Annotation) error {
	if annotation == nil {
		return fmt.Errorf("%w: annotation is nil", ErrInvalidAnnotation)
	}

	if annotation.PaperId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAnnotation, ErrMissingPaperId)
	}

	if annotation.Query == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAnnotation, ErrEmptyQuery)
	}

	return nil
}

// IsValidTimestamp reports whether the timestamp is not in the future.
// A small clock-skew allowance of one minute is tolerated.
func IsValidTimestamp(t time.Time) bool {
	return !t.After(time.Now().Add(time.Minute))
}
