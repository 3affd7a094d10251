// Package local implements a deterministic, network-free fallback embedder.
//
// The construction is pinned as part of the data-integrity contract: the
// trimmed, lowercased text is decomposed into sliding rune trigrams (the
// whole text when shorter than three runes), each trigram is hashed with
// FNV-1a 64 into one of D buckets, bucket counts are accumulated, and the
// resulting vector is L2-normalized. The same text always yields a
// bit-identical vector, which keeps degraded-mode ranking reproducible.
package local

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings"
)

const ngramSize = 3

// Embedder computes pseudo-embeddings from text without any network call.
type Embedder struct {
	dims int
}

// NewEmbedder creates a local embedder producing vectors of the given
// dimensionality. The dimensionality must match the external provider's
// so downstream ranking never sees mixed dimensions.
func NewEmbedder(dims int) (*Embedder, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", dims)
	}
	return &Embedder{dims: dims}, nil
}

// Embed converts text into a deterministic pseudo-embedding.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %w", embeddings.ErrEmbedding, embeddings.ErrEmptyText)
	}

	runes := []rune(strings.ToLower(trimmed))

	counts := make([]float64, e.dims)
	if len(runes) < ngramSize {
		counts[bucket(string(runes), e.dims)]++
	} else {
		for i := 0; i+ngramSize <= len(runes); i++ {
			counts[bucket(string(runes[i:i+ngramSize]), e.dims)]++
		}
	}

	var norm float64
	for _, c := range counts {
		norm += c * c
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, e.dims)
	for i, c := range counts {
		vec[i] = float32(c / norm)
	}

	return vec, nil
}

// Dimensions returns the configured vector dimensionality.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// Close is a no-op.
func (e *Embedder) Close() error {
	return nil
}

func bucket(gram string, dims int) int {
	h := fnv.New64a()
	h.Write([]byte(gram))
	return int(h.Sum64() % uint64(dims))
}

var _ embeddings.Embedder = (*Embedder)(nil)
