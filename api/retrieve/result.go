package retrieve

import (
	"fmt"
	"sort"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// InputError reports a request parameter the caller must fix. The API
// layer maps it to a 400 response.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Result is a single ranked chunk.
type Result struct {
	ChunkID  string          `json:"chunk_id"`
	Document chunks.Document `json:"document"`
	Ordinal  int             `json:"ordinal"`
	Content  string          `json:"content"`
	Score    float64         `json:"score"`
}

// Output is the response for a retrieval request.
type Output struct {
	Query   string      `json:"query"`
	Mode    chunks.Mode `json:"mode"`
	Results []Result    `json:"results"`
	Count   int         `json:"count"`
}

// DocumentResult aggregates ranked chunks belonging to one source document.
type DocumentResult struct {
	Document   chunks.Document `json:"document"`
	MatchCount int             `json:"match_count"`
	MeanScore  float64         `json:"mean_score"`
	BestChunk  Result          `json:"best_chunk"`
}

// GroupedOutput is the response for a document-grouped retrieval request.
type GroupedOutput struct {
	Query   string           `json:"query"`
	Mode    chunks.Mode      `json:"mode"`
	Results []DocumentResult `json:"results"`
	Count   int              `json:"count"`
}

// GroupByDocument folds ranked chunks into per-document aggregates.
// Documents are ordered by match count, then mean score, then URL so
// the output is deterministic. The input order decides each document's
// best chunk: the first chunk seen for a URL is its highest scored one.
func GroupByDocument(results []Result, limit int) []DocumentResult {
	type group struct {
		doc   chunks.Document
		best  Result
		total float64
		count int
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, r := range results {
		url := r.Document.URL
		g, ok := groups[url]
		if !ok {
			g = &group{doc: r.Document, best: r}
			groups[url] = g
			order = append(order, url)
		}
		g.total += r.Score
		g.count++
	}

	out := make([]DocumentResult, 0, len(order))
	for _, url := range order {
		g := groups[url]
		out = append(out, DocumentResult{
			Document:   g.doc,
			MatchCount: g.count,
			MeanScore:  g.total / float64(g.count),
			BestChunk:  g.best,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchCount != out[j].MatchCount {
			return out[i].MatchCount > out[j].MatchCount
		}
		if out[i].MeanScore != out[j].MeanScore {
			return out[i].MeanScore > out[j].MeanScore
		}
		return out[i].Document.URL < out[j].Document.URL
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
