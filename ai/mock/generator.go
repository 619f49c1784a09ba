package mock

import "context"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns the fixed Answer.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// Answer is the response returned when GenerateFunc is nil.
	Answer string

	callCount int
	prompts   []string
}

// NewMockGenerator creates a mock generator that answers with the given
// fixed response. Note: Returns concrete type to allow test assertions.
func NewMockGenerator(answer string) *MockGenerator {
	return &MockGenerator{Answer: answer}
}

// Generate records the prompt and returns the configured answer.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.prompts = append(m.prompts, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return m.Answer, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Prompts returns the prompts Generate has been called with, in order.
func (m *MockGenerator) Prompts() []string {
	return m.prompts
}

// Reset clears recorded calls and injected functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.prompts = nil
	m.GenerateFunc = nil
}
