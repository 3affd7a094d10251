// Package openai implements pkg/embeddings' Embedder against the OpenAI
// embeddings API.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings"
)

const (
	// DefaultModel is the default embedding model.
	DefaultModel = "text-embedding-3-small"

	// DefaultDimensions matches DefaultModel's native output size.
	DefaultDimensions = 1536

	// DefaultMaxInputChars is the input length the embedder truncates to
	// before submission, in runes.
	DefaultMaxInputChars = 8000

	// DefaultTimeout bounds a single embedding request.
	DefaultTimeout = 10 * time.Second
)

// Embedder wraps the OpenAI embeddings API.
type Embedder struct {
	client        openaigo.Client
	model         string
	dims          int
	maxInputChars int
}

// EmbedderConfig holds configuration for the OpenAI embedder.
type EmbedderConfig struct {
	// APIKey authenticates against the API. Required.
	APIKey string

	// BaseURL overrides the API endpoint, e.g. for compatible gateways.
	BaseURL string

	// Model is the embedding model. Defaults to DefaultModel if empty.
	Model string

	// Dimensions is the requested vector dimensionality.
	// Defaults to DefaultDimensions if zero.
	Dimensions int

	// MaxInputChars caps input length in runes before submission.
	// Defaults to DefaultMaxInputChars if zero.
	MaxInputChars int

	// Timeout bounds each API call. Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// NewEmbedder creates a new embedder backed by the OpenAI embeddings API.
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	dims := cfg.Dimensions
	if dims == 0 {
		dims = DefaultDimensions
	}
	if dims < 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", dims)
	}

	maxChars := cfg.MaxInputChars
	if maxChars == 0 {
		maxChars = DefaultMaxInputChars
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Embedder{
		client:        openaigo.NewClient(opts...),
		model:         model,
		dims:          dims,
		maxInputChars: maxChars,
	}, nil
}

// Embed converts text into a vector embedding. Input is trimmed and, when
// oversized, truncated at a whitespace boundary before submission.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %w", embeddings.ErrEmbedding, embeddings.ErrEmptyText)
	}

	input := embeddings.TruncateAtWhitespace(trimmed, e.maxInputChars)

	resp, err := e.client.Embeddings.New(ctx, openaigo.EmbeddingNewParams{
		Input:      openaigo.EmbeddingNewParamsInputUnion{OfString: openaigo.String(input)},
		Model:      openaigo.EmbeddingModel(e.model),
		Dimensions: openaigo.Int(int64(e.dims)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embeddings.ErrEmbedding, err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", embeddings.ErrEmbedding)
	}

	raw := resp.Data[0].Embedding
	if len(raw) != e.dims {
		return nil, fmt.Errorf("%w: provider returned %d dimensions, want %d", embeddings.ErrEmbedding, len(raw), e.dims)
	}

	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}

	return vec, nil
}

// Dimensions returns the configured vector dimensionality.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
