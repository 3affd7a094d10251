package chunks

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("chunk store unavailable")

	// ErrInvalidMode is returned for a mode other than raw or summary.
	ErrInvalidMode = errors.New("invalid chunk mode")
)

// DimensionError reports a stored embedding whose dimensionality does not
// match the configured dimensionality. It signals that re-embedding is
// needed (e.g. after a provider or model change) and is surfaced instead
// of silently dropping the mismatched record.
type DimensionError struct {
	ChunkID string
	Got     int
	Want    int
}

func (e *DimensionError) Error() string {
	if e.ChunkID == "" {
		return fmt.Sprintf("embedding dimension mismatch: got %d, want %d", e.Got, e.Want)
	}
	return fmt.Sprintf("embedding dimension mismatch for chunk %s: got %d, want %d", e.ChunkID, e.Got, e.Want)
}
