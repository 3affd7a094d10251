package testutils

import (
	"context"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/eventstream"
)

// CapturePublisher records degraded-mode events for assertions.
type CapturePublisher struct {
	// Events holds every published event in order.
	Events []*eventstream.EmbeddingDegradedEvent

	// FailPublish, when non-nil, is returned by PublishDegraded.
	FailPublish error
}

func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

func (p *CapturePublisher) PublishDegraded(_ context.Context, event *eventstream.EmbeddingDegradedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	if p.FailPublish != nil {
		return p.FailPublish
	}
	p.Events = append(p.Events, event)
	return nil
}

func (p *CapturePublisher) Close() error {
	return nil
}

var _ eventstream.Publisher = (*CapturePublisher)(nil)
