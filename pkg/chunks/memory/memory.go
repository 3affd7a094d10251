// Package memory provides an in-memory chunk store for tests and demos.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// Store holds chunks in memory. Reads are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	dims   int
	chunks []chunks.Chunk
}

// NewStore creates an empty in-memory store for vectors of the given
// dimensionality.
func NewStore(dims int) (*Store, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", dims)
	}
	return &Store{dims: dims}, nil
}

// Add inserts chunks, validating mode and embedding dimensionality.
// A chunk with an existing ID replaces the stored one.
func (s *Store) Add(_ context.Context, cs []chunks.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cs {
		if !c.Mode.Valid() {
			return fmt.Errorf("%w: %q", chunks.ErrInvalidMode, c.Mode)
		}
		if len(c.Embedding) != s.dims {
			return &chunks.DimensionError{ChunkID: c.ID, Got: len(c.Embedding), Want: s.dims}
		}
	}

	for _, c := range cs {
		replaced := false
		for i := range s.chunks {
			if s.chunks[i].ID == c.ID {
				s.chunks[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			s.chunks = append(s.chunks, c)
		}
	}
	return nil
}

// Candidates returns all chunks of the given mode passing the filter.
func (s *Store) Candidates(_ context.Context, mode chunks.Mode, filter chunks.Filter) ([]chunks.Chunk, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", chunks.ErrInvalidMode, mode)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]chunks.Chunk, 0)
	for _, c := range s.chunks {
		if c.Mode != mode || !filter.Matches(c) {
			continue
		}
		if len(c.Embedding) != s.dims {
			return nil, &chunks.DimensionError{ChunkID: c.ID, Got: len(c.Embedding), Want: s.dims}
		}
		out = append(out, c)
	}

	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

var _ chunks.Store = (*Store)(nil)
