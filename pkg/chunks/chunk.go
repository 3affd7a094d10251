// Package chunks provides the chunk data model and the read contract over
// persisted meeting-minute chunks and their precomputed embeddings.
package chunks

// Mode selects which candidate set a retrieval operates over. Raw-text
// chunks and summary chunks are disjoint record sets, never alternate
// fields of one record.
type Mode string

const (
	// ModeRaw selects chunks carrying raw transcript text.
	ModeRaw Mode = "raw"

	// ModeSummary selects chunks carrying per-document summary text.
	ModeSummary Mode = "summary"
)

// Valid reports whether m is a known chunk mode.
func (m Mode) Valid() bool {
	return m == ModeRaw || m == ModeSummary
}

// Document identifies the source meeting a chunk was extracted from.
type Document struct {
	// ID is the stable document identifier (doc_id in the metadata table).
	ID string `json:"id"`

	// URL points at the published meeting record.
	URL string `json:"url"`

	// Council is the name of the council or committee that met.
	Council string `json:"council"`

	// Date is the meeting date in YYYY-MM-DD form, empty if unknown.
	Date string `json:"date,omitempty"`

	// Ministry is the ministry the meeting belongs to, empty if unknown.
	Ministry string `json:"ministry,omitempty"`
}

// Chunk is a unit of meeting-minute text (or its summary) stored with a
// precomputed embedding vector. Chunks are created during ingestion and
// immutable afterwards.
type Chunk struct {
	// ID is an opaque chunk identifier, unique within its mode.
	ID string

	// Document references the source meeting record.
	Document Document

	// Ordinal is the chunk's position within its source document.
	// It is the deterministic tie-breaker during ranking.
	Ordinal int

	// Text is the raw transcript text. Set for ModeRaw chunks.
	Text string

	// Summary is the summary text. Set for ModeSummary chunks.
	Summary string

	// Mode tags which candidate set this chunk belongs to.
	Mode Mode

	// Embedding is the precomputed vector for Content().
	Embedding []float32
}

// Content returns the text the chunk's embedding was computed from:
// the summary for summary chunks, the raw text otherwise.
func (c Chunk) Content() string {
	if c.Mode == ModeSummary {
		return c.Summary
	}
	return c.Text
}

// Filter narrows the candidate set returned by a store.
type Filter struct {
	// Ministry restricts candidates to documents of one ministry.
	// Empty means no restriction.
	Ministry string
}

// Matches reports whether a chunk passes the filter.
func (f Filter) Matches(c Chunk) bool {
	return f.Ministry == "" || c.Document.Ministry == f.Ministry
}
