// Package rank scores chunk candidates against a query vector and orders
// them for retrieval. It is a brute-force in-memory ranker; corpora the
// size of a single jurisdiction's meeting archive rank in microseconds.
// Indexed nearest-neighbor backends can replace it behind the same
// contract without touching the retrieval layer.
package rank

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// ErrTopK is returned when top_k is not a positive integer.
var ErrTopK = errors.New("top_k must be a positive integer")

// Result pairs a chunk with its similarity score against the query.
type Result struct {
	Chunk chunks.Chunk
	Score float64
}

// Cosine computes the cosine similarity between two vectors of equal
// dimensionality. A zero vector scores 0 against everything; there is no
// division by zero. Accumulation happens in float64 to keep float32
// inputs numerically stable.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Rank scores every candidate against the query vector and returns the
// min(topK, len(candidates)) best results in descending score order.
//
// Ties are broken by ascending ordinal, then chunk ID, so identical
// inputs always produce identical output. A candidate whose embedding
// dimensionality differs from the query's is a *chunks.DimensionError,
// never a malformed score. An empty candidate set returns an empty
// result, not an error.
func Rank(query []float32, candidates []chunks.Chunk, topK int) ([]Result, error) {
	if topK <= 0 {
		return nil, ErrTopK
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Embedding) != len(query) {
			return nil, &chunks.DimensionError{
				ChunkID: c.ID,
				Got:     len(c.Embedding),
				Want:    len(query),
			}
		}

		score, err := Cosine(query, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("scoring chunk %s: %w", c.ID, err)
		}

		results = append(results, Result{Chunk: c, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Chunk.Ordinal != results[j].Chunk.Ordinal {
			return results[i].Chunk.Ordinal < results[j].Chunk.Ordinal
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if topK < len(results) {
		results = results[:topK]
	}

	return results, nil
}
