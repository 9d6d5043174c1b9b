package ai

import (
	"context"
)

// MockProvider is a deterministic in-process Provider used by tests and
// by dry runs. Embeddings are derived from a rolling hash of the text so
// identical inputs always produce identical vectors.
type MockProvider struct {
	dimension int

	// Response is returned verbatim from Complete.
	Response string
	// EmbedErr / CompleteErr force the corresponding call to fail.
	EmbedErr    error
	CompleteErr error

	// EmbedCalls / CompleteCalls count invocations.
	EmbedCalls    int
	CompleteCalls int
}

// NewMockProvider creates a mock provider with the given embedding
// dimension.
func NewMockProvider(dimension int) *MockProvider {
	return &MockProvider{dimension: dimension}
}

// Embed generates a deterministic embedding based on a text hash.
func (p *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.EmbedCalls++
	if p.EmbedErr != nil {
		return nil, p.EmbedErr
	}

	hash := 0
	for _, c := range text {
		hash = hash*31 + int(c)
	}

	embedding := make([]float32, p.dimension)
	for i := 0; i < p.dimension; i++ {
		embedding[i] = float32((hash+i)%100) / 100.0
	}

	return embedding, nil
}

// Complete returns the configured response.
func (p *MockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.CompleteCalls++
	if p.CompleteErr != nil {
		return "", p.CompleteErr
	}
	return p.Response, nil
}
