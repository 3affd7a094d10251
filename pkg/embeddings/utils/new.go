// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings/local"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings/openai"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/eventstream"
)

// NewEmbedderOpts configures the embedder chain built by NewEmbedder.
type NewEmbedderOpts struct {
	// Provider selects the primary embedder ("openai" or "local").
	Provider string

	// APIKey is the external provider credential. When empty the chain
	// runs local-only regardless of Provider.
	APIKey string

	// BaseURL overrides the external provider endpoint.
	BaseURL string

	Model         string
	Dimensions    int
	MaxInputChars int
	Timeout       time.Duration

	// DisableExternal starts with the external provider switched off.
	DisableExternal bool

	Events eventstream.Publisher
	Logger *slog.Logger
}

// NewEmbedder builds the provider chain: the selected external embedder
// as primary (when credentials are present) and the deterministic local
// embedder as the always-available secondary.
func NewEmbedder(o *NewEmbedderOpts) (*embeddings.Fallback, error) {
	secondary, err := local.NewEmbedder(o.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("creating local embedder: %w", err)
	}

	var primary embeddings.Embedder
	switch o.Provider {
	case "openai":
		if o.APIKey == "" {
			o.Logger.Warn("no embedding credentials configured, running local-only")
			break
		}
		primary, err = openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:        o.APIKey,
			BaseURL:       o.BaseURL,
			Model:         o.Model,
			Dimensions:    o.Dimensions,
			MaxInputChars: o.MaxInputChars,
			Timeout:       o.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating openai embedder: %w", err)
		}

	case "local":
		// local-only, no primary

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.Provider)
	}

	return embeddings.NewFallback(embeddings.FallbackConfig{
		Primary:         primary,
		Secondary:       secondary,
		ProviderName:    o.Provider,
		Model:           o.Model,
		Timeout:         o.Timeout,
		DisableExternal: o.DisableExternal,
		Events:          o.Events,
		Logger:          o.Logger,
	})
}
