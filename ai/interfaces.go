package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// ranking. Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice is in the same order as the input.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator answers prompts with a language model. Implementations
// clean the raw model output (reasoning blocks, answer markers) before
// returning it, and must be safe for concurrent use.
type Generator interface {
	// Generate runs the prompt through the model and returns the
	// cleaned answer text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates the AI services behind a single lifecycle.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the answer generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	Close() error
}
