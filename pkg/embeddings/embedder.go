// Package embeddings provides text embedding capabilities for retrieval.
package embeddings

import (
	"context"
	"errors"
)

var (
	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrEmptyText is returned when the input is empty after trimming.
	ErrEmptyText = errors.New("text must not be empty")
)

// Embedder converts text into a fixed-length vector embedding.
// All embedders in one process produce vectors of the same
// dimensionality so ranking is agnostic to which provider ran.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed vector dimensionality.
	Dimensions() int

	// Close releases any resources held by the embedder.
	Close() error
}
