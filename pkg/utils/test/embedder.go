// Package testutils provides shared fakes for package tests.
package testutils

import (
	"context"
	"fmt"
)

// MockEmbedder is a test embedder that returns predictable embeddings.
type MockEmbedder struct {
	// Dims is the dimensionality of returned vectors. Defaults to 3.
	Dims int

	// Embeddings maps input text to a fixed vector.
	Embeddings map[string][]float32

	// FailOn causes Embed to return an error when the input text matches.
	FailOn string

	// FailAlways causes every Embed call to return an error.
	FailAlways bool

	// BlockUntilCancel makes Embed wait for context cancellation and
	// return the context error, simulating an unreachable provider.
	BlockUntilCancel bool

	// Calls counts Embed invocations.
	Calls int
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Dims:       3,
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.Calls++

	if m.BlockUntilCancel {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if m.FailAlways || (m.FailOn != "" && text == m.FailOn) {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	// Default embedding for any text
	vec := make([]float32, m.Dims)
	for i := range vec {
		vec[i] = float32(i+1) / 10
	}
	return vec, nil
}

func (m *MockEmbedder) Dimensions() int {
	return m.Dims
}

func (m *MockEmbedder) Close() error {
	return nil
}
