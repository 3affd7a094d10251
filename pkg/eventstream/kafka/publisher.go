// Package kafka provides a Kafka-backed eventstream publisher.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/eventstream"
)

// DefaultTopic is the topic degraded-mode events are written to when none
// is configured.
const DefaultTopic = "minutes.events"

// Publisher writes events to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the destination topic. Defaults to DefaultTopic if empty.
	Topic string
}

// NewPublisher creates a Kafka-backed publisher.
func NewPublisher(c Config, logger *slog.Logger) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}

	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(c.Brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	logger.Info("kafka event publisher initialized",
		"brokers", c.Brokers,
		"topic", topic,
	)

	return &Publisher{
		writer: writer,
		logger: logger,
	}, nil
}

// PublishDegraded writes a degraded-mode event keyed by its event ID.
func (p *Publisher) PublishDegraded(ctx context.Context, event *eventstream.EmbeddingDegradedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event %s: %w", event.EventID, err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.EventID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing event %s: %w", event.EventID, err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
