// Package mock provides test double implementations of the AI service
// interfaces.
//
// The mocks allow tests to run without an embedding service or language
// model and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embedding, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Fixed generator answer
//	gen := mock.NewMockGenerator("model")
//
//	// Custom behavior injection
//	emb := mock.NewMockEmbedder()
//	emb.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
// # Default Behavior
//
//   - MockEmbedder: returns deterministic unit vectors derived from a
//     hash of the text
//   - MockGenerator: returns a fixed answer and records prompts
//   - MockProvider: aggregates mock embedder and generator
package mock
