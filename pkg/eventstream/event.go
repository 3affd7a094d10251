package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeEmbeddingDegraded is emitted when the external embedding
	// provider failed or timed out and the local fallback served the
	// request instead. The request itself still succeeds.
	EventTypeEmbeddingDegraded = "minutes.embedding.degraded"
)

// EmbeddingDegradedEvent is a transport-neutral payload recording a single
// degraded-mode embedding. Query text is never carried, only its length.
type EmbeddingDegradedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	// Provider and Model identify the primary embedder that failed.
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`

	// Reason is the failure description (network error, timeout, auth,
	// malformed response).
	Reason string `json:"reason"`

	// QueryChars is the rune length of the query that was re-embedded
	// by the fallback.
	QueryChars int `json:"query_chars"`
}

// NewEmbeddingDegradedEvent builds a v1 degraded-mode event with a fresh
// event ID and timestamp.
func NewEmbeddingDegradedEvent(provider, model, reason string, queryChars int) *EmbeddingDegradedEvent {
	return &EmbeddingDegradedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeEmbeddingDegraded,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Provider:      provider,
		Model:         model,
		Reason:        reason,
		QueryChars:    queryChars,
	}
}
