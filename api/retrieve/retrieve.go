// Package retrieve provides the retrieval service over government
// meeting transcripts. It embeds the query, loads candidate chunks from
// the store, and ranks them by cosine similarity. It is used by both
// the REST API endpoints and the MCP server tools.
package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/rank"
)

// groupOverfetch is how many times topK chunks are ranked before
// grouping by document, so that a document matched by several chunks
// outranks one matched by a single better chunk.
const groupOverfetch = 5

// Retriever answers retrieval requests against one embedder and one
// chunk store.
type Retriever struct {
	embedder embeddings.Embedder
	store    chunks.Store
	logger   *slog.Logger
}

// NewRetriever creates a Retriever. All dependencies are required.
func NewRetriever(embedder embeddings.Embedder, store chunks.Store, logger *slog.Logger) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("chunk store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}, nil
}

// Search ranks raw transcript chunks against the query.
func (r *Retriever) Search(ctx context.Context, query string, topK int, filter chunks.Filter) (*Output, error) {
	return r.retrieve(ctx, chunks.ModeRaw, query, topK, filter)
}

// SummarySearch ranks per-document summary chunks against the query.
func (r *Retriever) SummarySearch(ctx context.Context, query string, topK int, filter chunks.Filter) (*Output, error) {
	return r.retrieve(ctx, chunks.ModeSummary, query, topK, filter)
}

// SearchGrouped ranks raw chunks and folds them into per-document
// aggregates. It over-fetches so documents with several matching
// chunks rank above single-chunk documents.
func (r *Retriever) SearchGrouped(ctx context.Context, query string, topK int, filter chunks.Filter) (*GroupedOutput, error) {
	out, err := r.retrieve(ctx, chunks.ModeRaw, query, topK*groupOverfetch, filter)
	if err != nil {
		return nil, err
	}

	grouped := GroupByDocument(out.Results, topK)

	return &GroupedOutput{
		Query:   out.Query,
		Mode:    out.Mode,
		Results: grouped,
		Count:   len(grouped),
	}, nil
}

func (r *Retriever) retrieve(ctx context.Context, mode chunks.Mode, query string, topK int, filter chunks.Filter) (*Output, error) {
	// Validate inputs before touching the embedder or the store.
	if strings.TrimSpace(query) == "" {
		return nil, &InputError{Field: "query", Reason: "must not be empty"}
	}
	if topK <= 0 {
		return nil, &InputError{Field: "top_k", Reason: "must be positive"}
	}

	r.logger.Debug("retrieval request",
		"mode", mode,
		"top_k", topK,
		"ministry", filter.Ministry,
		"query_chars", len([]rune(query)),
	)

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	candidates, err := r.store.Candidates(ctx, mode, filter)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	if len(candidates) == 0 {
		return &Output{
			Query:   query,
			Mode:    mode,
			Results: []Result{},
			Count:   0,
		}, nil
	}

	ranked, err := rank.Rank(embedding, candidates, topK)
	if err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}

	results := make([]Result, 0, len(ranked))
	for _, rr := range ranked {
		results = append(results, Result{
			ChunkID:  rr.Chunk.ID,
			Document: rr.Chunk.Document,
			Ordinal:  rr.Chunk.Ordinal,
			Content:  rr.Chunk.Content(),
			Score:    rr.Score,
		})
	}

	return &Output{
		Query:   query,
		Mode:    mode,
		Results: results,
		Count:   len(results),
	}, nil
}
