// Package api provides the HTTP API server for searching government
// meeting transcripts.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// DefaultTopK applies when a request omits top_k.
	DefaultTopK int

	// MaxTopK caps top_k for raw chunk search.
	MaxTopK int

	// SummaryMaxTopK caps top_k for summary search. Summaries are one
	// per document, so the cap is higher.
	SummaryMaxTopK int
}

// applyDefaults fills zero fields with server defaults.
func (c *Config) applyDefaults() {
	if c.DefaultTopK <= 0 {
		c.DefaultTopK = 5
	}
	if c.MaxTopK <= 0 {
		c.MaxTopK = 20
	}
	if c.SummaryMaxTopK <= 0 {
		c.SummaryMaxTopK = 100
	}
}
