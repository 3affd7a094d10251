// Package qdrant provides a chunk store backed by a Qdrant collection.
// Points carry the chunk payload (identifiers, document metadata, mode,
// content) alongside their embedding vector; candidate loading is a
// single filtered scroll sized to the corpus.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	qdrantgo "github.com/qdrant/go-client/qdrant"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// DefaultScrollLimit bounds a single candidate scroll. Corpora larger
// than this need the limit raised in config.
const DefaultScrollLimit = 10000

// Store implements chunks.Store against a Qdrant collection.
type Store struct {
	client      *qdrantgo.Client
	collection  string
	dims        int
	scrollLimit uint32
	logger      *slog.Logger
}

// Config holds configuration for the Qdrant store.
type Config struct {
	// Host is the Qdrant gRPC host.
	Host string

	// Port is the Qdrant gRPC port, typically 6334.
	Port int

	// APIKey authenticates against a secured deployment. Optional.
	APIKey string

	// Collection is the collection holding chunk points.
	Collection string

	// Dimensions is the expected embedding dimensionality.
	Dimensions int

	// ScrollLimit caps how many points a single Candidates call reads.
	// Defaults to DefaultScrollLimit.
	ScrollLimit int
}

// NewStore connects to Qdrant and verifies reachability.
func NewStore(ctx context.Context, c Config, logger *slog.Logger) (*Store, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if c.Collection == "" {
		return nil, fmt.Errorf("qdrant collection is required")
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", c.Dimensions)
	}

	limit := c.ScrollLimit
	if limit <= 0 {
		limit = DefaultScrollLimit
	}

	client, err := qdrantgo.NewClient(&qdrantgo.Config{
		Host:   c.Host,
		Port:   c.Port,
		APIKey: c.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	if _, err := client.HealthCheck(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: qdrant health check: %v", chunks.ErrUnavailable, err)
	}

	logger.Info("qdrant chunk store initialized",
		"host", c.Host,
		"collection", c.Collection,
		"dimensions", c.Dimensions,
	)

	return &Store{
		client:      client,
		collection:  c.Collection,
		dims:        c.Dimensions,
		scrollLimit: uint32(limit),
		logger:      logger,
	}, nil
}

// Candidates scrolls all points of the given mode passing the filter.
func (s *Store) Candidates(ctx context.Context, mode chunks.Mode, filter chunks.Filter) ([]chunks.Chunk, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", chunks.ErrInvalidMode, mode)
	}

	must := []*qdrantgo.Condition{
		qdrantgo.NewMatch("mode", string(mode)),
	}
	if filter.Ministry != "" {
		must = append(must, qdrantgo.NewMatch("ministry", filter.Ministry))
	}

	points, err := s.client.Scroll(ctx, &qdrantgo.ScrollPoints{
		CollectionName: s.collection,
		Filter:         &qdrantgo.Filter{Must: must},
		Limit:          &s.scrollLimit,
		WithPayload:    qdrantgo.NewWithPayload(true),
		WithVectors:    qdrantgo.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scrolling points: %v", chunks.ErrUnavailable, err)
	}

	out := make([]chunks.Chunk, 0, len(points))
	for _, p := range points {
		c, err := s.pointToChunk(p, mode)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, nil
}

func (s *Store) pointToChunk(p *qdrantgo.RetrievedPoint, mode chunks.Mode) (chunks.Chunk, error) {
	payload := p.GetPayload()

	c := chunks.Chunk{
		ID:   payloadString(payload, "chunk_id"),
		Mode: mode,
		Document: chunks.Document{
			ID:       payloadString(payload, "doc_id"),
			URL:      payloadString(payload, "url"),
			Council:  payloadString(payload, "council"),
			Date:     payloadString(payload, "date"),
			Ministry: payloadString(payload, "ministry"),
		},
		Ordinal: int(payloadInt(payload, "ordinal")),
	}
	if c.ID == "" {
		return chunks.Chunk{}, fmt.Errorf("point %s has no chunk_id payload", p.GetId().String())
	}

	content := payloadString(payload, "content")
	if mode == chunks.ModeSummary {
		c.Summary = content
	} else {
		c.Text = content
	}

	vectors := p.GetVectors().GetVector()
	if vectors == nil {
		return chunks.Chunk{}, &chunks.DimensionError{ChunkID: c.ID, Got: 0, Want: s.dims}
	}
	c.Embedding = vectors.GetData()
	if len(c.Embedding) != s.dims {
		return chunks.Chunk{}, &chunks.DimensionError{ChunkID: c.ID, Got: len(c.Embedding), Want: s.dims}
	}

	return c, nil
}

func payloadString(payload map[string]*qdrantgo.Value, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func payloadInt(payload map[string]*qdrantgo.Value, key string) int64 {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	return v.GetIntegerValue()
}

// Ping verifies Qdrant reachability.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %v", chunks.ErrUnavailable, err)
	}
	return nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ chunks.Store = (*Store)(nil)
