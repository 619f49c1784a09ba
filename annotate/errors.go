package annotate

import "errors"

var (
	// ErrProviderRequired is returned when no AI provider is given.
	ErrProviderRequired = errors.New("annotate: ai provider is required")

	// ErrRepositoryRequired is returned when a repository is missing.
	ErrRepositoryRequired = errors.New("annotate: repository is required")

	// ErrNoText indicates the paper has no extracted text to annotate.
	ErrNoText = errors.New("annotate: paper has no text")

	// ErrNoRelevantChunks indicates retrieval produced nothing to prompt with.
	ErrNoRelevantChunks = errors.New("annotate: no relevant chunks retrieved")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("annotate: invalid config")

	// ErrInvalidAnswer indicates a structured answer could not be parsed.
	ErrInvalidAnswer = errors.New("annotate: answer is not valid JSON")
)
