package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent minutes configuration stored as config.toml
// in the .minutes/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Storage   StorageConfig   `toml:"storage"`
	API       APIConfig       `toml:"api"`
	Client    ClientConfig    `toml:"client"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Events    EventsConfig    `toml:"events"`
}

// StorageConfig holds chunk store settings.
type StorageConfig struct {
	// Provider is one of "postgres", "sqlite", "qdrant", or "memory".
	Provider string `toml:"provider,omitempty"`

	// Target is the backend address: a DSN for postgres, a file path for
	// sqlite, "host:port" for qdrant.
	Target string `toml:"target,omitempty"`

	// Collection names the qdrant collection.
	Collection string `toml:"collection,omitempty"`

	// ScrollLimit caps a single qdrant candidate scroll. Zero uses the
	// driver default.
	ScrollLimit uint `toml:"scroll_limit,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// API server (e.g. minutes search). Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider is "openai" or "local".
	Provider string `toml:"provider,omitempty"`

	// Target overrides the provider base URL. Empty uses the provider default.
	Target string `toml:"target,omitempty"`

	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`

	// TimeoutSeconds bounds a single external embedding call before
	// falling back to the local provider.
	TimeoutSeconds uint `toml:"timeout_seconds,omitempty"`

	// MaxInputChars truncates query text before embedding.
	MaxInputChars uint `toml:"max_input_chars,omitempty"`

	// DisableExternal skips the external provider entirely, serving all
	// embeddings from the local fallback.
	DisableExternal bool `toml:"disable_external,omitempty"`
}

// RetrievalConfig holds ranking and pagination settings.
type RetrievalConfig struct {
	DefaultTopK    uint `toml:"default_top_k,omitempty"`
	MaxTopK        uint `toml:"max_top_k,omitempty"`
	SummaryMaxTopK uint `toml:"summary_max_top_k,omitempty"`
}

// EventsConfig holds operational event stream settings.
type EventsConfig struct {
	// Provider is "nop" or "kafka".
	Provider string `toml:"provider,omitempty"`

	// Brokers is a comma-separated list of kafka brokers.
	Brokers string `toml:"brokers,omitempty"`

	Topic string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func uintKey(get func(c *Config) *uint, name string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			v := *get(c)
			if v == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(v), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*get(c) = uint(n)
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.provider": {
		get: func(c *Config) string { return c.Storage.Provider },
		set: func(c *Config, v string) error { c.Storage.Provider = v; return nil },
	},
	"storage.target": {
		get: func(c *Config) string { return c.Storage.Target },
		set: func(c *Config, v string) error { c.Storage.Target = v; return nil },
	},
	"storage.collection": {
		get: func(c *Config) string { return c.Storage.Collection },
		set: func(c *Config, v string) error { c.Storage.Collection = v; return nil },
	},
	"storage.scroll_limit": uintKey(func(c *Config) *uint { return &c.Storage.ScrollLimit }, "storage.scroll_limit"),
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions":      uintKey(func(c *Config) *uint { return &c.Embedding.Dimensions }, "embedding.dimensions"),
	"embedding.timeout_seconds": uintKey(func(c *Config) *uint { return &c.Embedding.TimeoutSeconds }, "embedding.timeout_seconds"),
	"embedding.max_input_chars": uintKey(func(c *Config) *uint { return &c.Embedding.MaxInputChars }, "embedding.max_input_chars"),
	"embedding.disable_external": {
		get: func(c *Config) string { return strconv.FormatBool(c.Embedding.DisableExternal) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.disable_external: %w", err)
			}
			c.Embedding.DisableExternal = b
			return nil
		},
	},
	"retrieval.default_top_k":     uintKey(func(c *Config) *uint { return &c.Retrieval.DefaultTopK }, "retrieval.default_top_k"),
	"retrieval.max_top_k":         uintKey(func(c *Config) *uint { return &c.Retrieval.MaxTopK }, "retrieval.max_top_k"),
	"retrieval.summary_max_top_k": uintKey(func(c *Config) *uint { return &c.Retrieval.SummaryMaxTopK }, "retrieval.summary_max_top_k"),
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
