// Package eventstream publishes observability events to a stream backend.
package eventstream

import "context"

// Publisher publishes degraded-mode events to an event stream backend.
type Publisher interface {
	PublishDegraded(ctx context.Context, event *EmbeddingDegradedEvent) error
	Close() error
}
