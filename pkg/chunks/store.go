package chunks

import "context"

// Store is the read contract over persisted chunks.
//
// Implementations must return only chunks whose mode matches the request,
// must return the full candidate set in a single pass (pagination, if ever
// needed, belongs to the caller), and must guarantee that every returned
// embedding has the store's configured dimensionality — a mismatch is a
// *DimensionError, never a silently skipped row.
type Store interface {
	// Candidates returns all chunks of the given mode passing the filter,
	// each carrying its embedding vector.
	Candidates(ctx context.Context, mode Mode, filter Filter) ([]Chunk, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
